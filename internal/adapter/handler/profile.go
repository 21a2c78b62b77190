package handler

import (
	"net/http"

	"wallet-bridge/internal/domain"
	"wallet-bridge/internal/usecase"
	"wallet-bridge/middleware"

	"github.com/labstack/echo/v4"
)

// ProfileHandler serves the reconciliation endpoints: the user snapshot
// and wallet registration.
type ProfileHandler struct {
	profile  *usecase.GetProfile
	register *usecase.RegisterWallet
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profile *usecase.GetProfile, register *usecase.RegisterWallet) *ProfileHandler {
	return &ProfileHandler{profile: profile, register: register}
}

// meResponse wraps the profile snapshot.
type meResponse struct {
	User *domain.UserProfile `json:"user"`
}

// HandleMe processes GET /auth/me.
func (h *ProfileHandler) HandleMe(c echo.Context) error {
	subject, ok := middleware.SubjectFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	profile, err := h.profile.Execute(c.Request().Context(), subject)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, meResponse{User: profile})
}

// verifyRequest names the provider wallet to associate.
type verifyRequest struct {
	WalletID string `json:"walletId" validate:"required"`
}

// HandleVerify processes POST /auth/verify.
func (h *ProfileHandler) HandleVerify(c echo.Context) error {
	subject, ok := middleware.SubjectFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.register.Execute(c.Request().Context(), subject, req.WalletID)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, meResponse{User: profile})
}
