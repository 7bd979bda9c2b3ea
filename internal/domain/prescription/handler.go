package prescription

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

// RegisterRoutes mounts the prescription endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/create", h.Create)
	g.GET("/patient/all", h.ListForPatient)
	g.GET("/doctor/all", h.ListForDoctor)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Patient ID and medications are required")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.Create(c.Request().Context(), callerID, req)
	if err != nil {
		if errors.Is(err, ErrDoctorProfileMissing) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Prescription created successfully",
		"prescription": p,
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
		"success":       true,
		"prescriptions": items,
		"total":         total,
		"limit":         pg.Limit,
		"offset":        pg.Offset,
		"has_more":      pg.HasNext(total),
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
		"success":       true,
		"prescriptions": items,
		"total":         total,
		"limit":         pg.Limit,
		"offset":        pg.Offset,
		"has_more":      pg.HasNext(total),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "prescription": p})
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
	p, err := h.svc.Update(c.Request().Context(), callerID, id, req)
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
		"success":      true,
		"message":      "Prescription updated successfully",
		"prescription": p,
	})
}
