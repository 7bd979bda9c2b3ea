package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hospitex/hospitex/internal/platform/auth"
	"github.com/hospitex/hospitex/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the appointment endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/book", h.Book)
	g.GET("/patient", h.ListForPatient)
	g.GET("/doctor/all", h.ListForDoctor)
	g.GET("/:id", h.Get)
	g.PUT("/:id/status", h.UpdateStatus)
	g.DELETE("/:id/cancel", h.Cancel)
}

func (h *Handler) Book(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Doctor, date, time, and service are required")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	a, err := h.svc.Book(c.Request().Context(), callerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientProfileMissing), errors.Is(err, ErrDoctorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"message":     "Appointment booked successfully",
		"appointment": a,
	})
}

func (h *Handler) ListForPatient(c echo.Context) error {
	pg := pagination.FromContext(c)
	callerID := auth.UserIDFromContext(c.Request().Context())

	items, total, err := h.svc.ListForPatient(c.Request().Context(), callerID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"appointments": items,
		"total":        total,
		"limit":        pg.Limit,
		"offset":       pg.Offset,
		"has_more":     pg.HasNext(total),
	})
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	pg := pagination.FromContext(c)
	callerID := auth.UserIDFromContext(c.Request().Context())

	items, total, err := h.svc.ListForDoctor(c.Request().Context(), callerID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"appointments": items,
		"total":        total,
		"limit":        pg.Limit,
		"offset":       pg.Offset,
		"has_more":     pg.HasNext(total),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "appointment": a})
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Valid status is required")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	a, err := h.svc.UpdateStatus(c.Request().Context(), callerID, id, req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrUpdateForbidden):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Appointment status updated successfully",
		"appointment": a,
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	a, err := h.svc.Cancel(c.Request().Context(), callerID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrCancelForbidden):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Appointment cancelled successfully",
		"appointment": a,
	})
}
