package handler

import (
	"net/http"

	"wallet-bridge/internal/usecase"
	"wallet-bridge/middleware"

	"github.com/labstack/echo/v4"
)

// ClaimHandler handles card-claim submissions.
type ClaimHandler struct {
	claim *usecase.ClaimCard
}

// NewClaimHandler creates a new claim handler.
func NewClaimHandler(claim *usecase.ClaimCard) *ClaimHandler {
	return &ClaimHandler{claim: claim}
}

// claimRequest carries the authorization payload from a card tap or scan.
type claimRequest struct {
	Authorization string `json:"authorization" validate:"required"`
}

// HandleClaim processes POST /claim.
func (h *ClaimHandler) HandleClaim(c echo.Context) error {
	subject, ok := middleware.SubjectFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req claimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.claim.Execute(c.Request().Context(), subject, req.Authorization)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
