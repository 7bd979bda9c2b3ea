package ambulance

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

// RegisterRoutes mounts the ambulance endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/request", h.Request)
	g.GET("/patient/requests", h.ListForPatient)
	g.GET("/all", h.ListAll)
	g.GET("/:id", h.Get)
	g.PUT("/:id/status", h.UpdateStatus)
	g.DELETE("/:id/cancel", h.Cancel)
}

func (h *Handler) Request(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			"Pickup location, destination, emergency type, patient name, and contact number are required")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	r, err := h.svc.Request(c.Request().Context(), callerID, req)
	if err != nil {
		if errors.Is(err, ErrPatientProfileMissing) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Ambulance request submitted successfully",
		"request": r,
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
		"success":  true,
		"requests": items,
		"total":    total,
		"limit":    pg.Limit,
		"offset":   pg.Offset,
		"has_more": pg.HasNext(total),
	})
}

func (h *Handler) ListAll(c echo.Context) error {
	pg := pagination.FromContext(c)
	callerID := auth.UserIDFromContext(c.Request().Context())

	items, total, err := h.svc.ListAll(c.Request().Context(), callerID, pg.Limit, pg.Offset)
	if err != nil {
		if errors.Is(err, ErrOperatorOnly) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"requests": items,
		"total":    total,
		"limit":    pg.Limit,
		"offset":   pg.Offset,
		"has_more": pg.HasNext(total),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "request": r})
}

type updateStatusRequest struct {
	Status        string  `json:"status"`
	EstimatedTime string  `json:"estimatedTime"`
	Notes         *string `json:"notes"`
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
	r, err := h.svc.UpdateStatus(c.Request().Context(), callerID, id, req.Status, req.EstimatedTime, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrOperatorOnly):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Ambulance status updated successfully",
		"request": r,
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	r, err := h.svc.Cancel(c.Request().Context(), callerID, id)
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
		"success": true,
		"message": "Ambulance request cancelled successfully",
		"request": r,
	})
}
