package diagnostic

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

// RegisterRoutes mounts the diagnostic-report endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/book", h.Book)
	g.GET("/patient/reports", h.ListForPatient)
	g.GET("/diagnostic/reports", h.ListForDiagnosticCenter)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
}

func (h *Handler) Book(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Diagnostic center, test name, type, and date are required")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	r, err := h.svc.Book(c.Request().Context(), callerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientProfileMissing), errors.Is(err, ErrCenterNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Diagnostic test booked successfully",
		"report":  r,
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
		"reports":  items,
		"total":    total,
		"limit":    pg.Limit,
		"offset":   pg.Offset,
		"has_more": pg.HasNext(total),
	})
}

func (h *Handler) ListForDiagnosticCenter(c echo.Context) error {
	pg := pagination.FromContext(c)
	callerID := auth.UserIDFromContext(c.Request().Context())

	items, total, err := h.svc.ListForDiagnosticCenter(c.Request().Context(), callerID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"reports":  items,
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
	return c.JSON(http.StatusOK, echo.Map{"success": true, "report": r})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	r, err := h.svc.Update(c.Request().Context(), callerID, id, req)
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
		"success": true,
		"message": "Diagnostic report updated successfully",
		"report":  r,
	})
}
