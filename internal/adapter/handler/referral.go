package handler

import (
	"net/http"

	"wallet-bridge/internal/usecase"
	"wallet-bridge/middleware"

	"github.com/labstack/echo/v4"
)

// ReferralHandler handles referral code redemption.
type ReferralHandler struct {
	redeem *usecase.RedeemReferral
}

// NewReferralHandler creates a new referral handler.
func NewReferralHandler(redeem *usecase.RedeemReferral) *ReferralHandler {
	return &ReferralHandler{redeem: redeem}
}

// redeemRequest carries the referral code being redeemed.
type redeemRequest struct {
	Code string `json:"code" validate:"required"`
}

// messageResponse is a plain user-facing confirmation.
type messageResponse struct {
	Message string `json:"message"`
}

// HandleRedeem processes POST /referral/redeem.
func (h *ReferralHandler) HandleRedeem(c echo.Context) error {
	subject, ok := middleware.SubjectFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.redeem.Execute(c.Request().Context(), subject, req.Code)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
