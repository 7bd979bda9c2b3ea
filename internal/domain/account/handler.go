package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitex/hospitex/internal/platform/auth"
)

type Handler struct {
	svc        *Service
	issuer     *auth.Issuer
	production bool
}

func NewHandler(svc *Service, issuer *auth.Issuer, production bool) *Handler {
	return &Handler{svc: svc, issuer: issuer, production: production}
}

// RegisterRoutes mounts the auth endpoints. The protected group must carry
// the session middleware.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/signup", h.SignUp)
	public.POST("/login", h.Login)
	public.POST("/send-reset-otp", h.SendResetOTP)
	public.POST("/reset-password", h.ResetPassword)

	protected.POST("/logout", h.Logout)
	protected.POST("/send-verify-otp", h.SendVerifyOTP)
	protected.POST("/verify-account", h.VerifyAccount)
	protected.GET("/is-auth", h.IsAuthenticated)
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Enter all credentials")
	}

	u, err := h.svc.SignUp(c.Request().Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.issuer.Issue(u.ID)
	if err != nil {
		return err
	}
	auth.SetSessionCookie(c, token, h.production)

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Signup successful",
		"user":    u,
		"role":    u.Role,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Enter credentials")
	}

	u, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.issuer.Issue(u.ID)
	if err != nil {
		return err
	}
	auth.SetSessionCookie(c, token, h.production)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"user":    u,
		"role":    u.Role,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	auth.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
}

func (h *Handler) SendVerifyOTP(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.SendVerifyOTP(c.Request().Context(), userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "OTP sent successfully"})
}

type verifyAccountRequest struct {
	OTP string `json:"otp"`
}

func (h *Handler) VerifyAccount(c echo.Context) error {
	var req verifyAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "OTP is required")
	}

	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.VerifyAccount(c.Request().Context(), userID, req.OTP); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Email verified successfully"})
}

func (h *Handler) IsAuthenticated(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"userId":  auth.UserIDFromContext(c.Request().Context()),
	})
}

type sendResetOTPRequest struct {
	Email string `json:"email"`
}

func (h *Handler) SendResetOTP(c echo.Context) error {
	var req sendResetOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	if err := h.svc.SendResetOTP(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "OTP sent to your email"})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email, OTP and new password are required")
	}

	if err := h.svc.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password has been reset successfully"})
}
