package profile

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitex/hospitex/internal/domain/account"
	"github.com/hospitex/hospitex/internal/platform/auth"
	"github.com/hospitex/hospitex/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the user endpoints. The directory listings are
// public; everything under /profile requires a session.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/doctors", h.ListDoctors)
	public.GET("/diagnostics", h.ListDiagnostics)

	protected.POST("/profile/create", h.CreateProfile)
	protected.GET("/profile", h.GetProfile)
	protected.PUT("/profile", h.UpdateProfile)
	protected.PUT("/profile/patient", h.UpdatePatientDetails)
	protected.PUT("/profile/doctor", h.UpdateDoctorDetails)
}

func createdMessage(p interface{}) string {
	switch p.(type) {
	case *PatientProfile:
		return "Patient profile created"
	case *DoctorProfile:
		return "Doctor profile created"
	case *DiagnosticProfile:
		return "Diagnostic profile created"
	}
	return "Profile created"
}

func (h *Handler) CreateProfile(c echo.Context) error {
	callerID := auth.UserIDFromContext(c.Request().Context())

	p, created, err := h.svc.EnsureProfile(c.Request().Context(), callerID)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	if !created {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Profile already exists",
			"profile": p,
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": createdMessage(p),
		"profile": p,
	})
}

func (h *Handler) GetProfile(c echo.Context) error {
	callerID := auth.UserIDFromContext(c.Request().Context())

	v, err := h.svc.GetProfile(c.Request().Context(), callerID)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    v.User,
		"profile": v.Profile,
	})
}

type updateProfileRequest struct {
	Username string `json:"username"`
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	u, err := h.svc.UpdateUsername(c.Request().Context(), callerID, req.Username)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user": echo.Map{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
			"role":     u.Role,
		},
	})
}

func (h *Handler) UpdatePatientDetails(c echo.Context) error {
	var req PatientUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.UpdatePatientDetails(c.Request().Context(), callerID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Patient profile updated successfully",
		"patient": p,
	})
}

func (h *Handler) UpdateDoctorDetails(c echo.Context) error {
	var req DoctorUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	d, err := h.svc.UpdateDoctorDetails(c.Request().Context(), callerID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Doctor profile updated successfully",
		"doctor":  d,
	})
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)

	items, total, err := h.svc.ListDoctors(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"doctors":  items,
		"total":    total,
		"limit":    pg.Limit,
		"offset":   pg.Offset,
		"has_more": pg.HasNext(total),
	})
}

func (h *Handler) ListDiagnostics(c echo.Context) error {
	pg := pagination.FromContext(c)

	items, total, err := h.svc.ListDiagnostics(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"diagnostics": items,
		"total":       total,
		"limit":       pg.Limit,
		"offset":      pg.Offset,
		"has_more":    pg.HasNext(total),
	})
}
