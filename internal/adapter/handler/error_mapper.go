package handler

import (
	"errors"
	"net/http"

	"wallet-bridge/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrInvalidCredential),
		errors.Is(err, domain.ErrInvalidSignature):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credential")

	case errors.Is(err, domain.ErrCredentialExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "credential expired")

	case errors.Is(err, domain.ErrMissingClaims):
		return echo.NewHTTPError(http.StatusBadRequest, "credential is missing required claims")

	case errors.Is(err, domain.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrProfileNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")

	case errors.Is(err, domain.ErrReferralNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "referral code not found")

	case errors.Is(err, domain.ErrSelfReferral):
		return echo.NewHTTPError(http.StatusBadRequest, "cannot redeem your own referral code")

	case errors.Is(err, domain.ErrAlreadyRedeemed):
		return echo.NewHTTPError(http.StatusConflict, "referral already redeemed")

	case errors.Is(err, domain.ErrClaimInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid claim authorization")

	case errors.Is(err, domain.ErrWalletCreation),
		errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrNetwork):
		return echo.NewHTTPError(http.StatusBadGateway, "wallet provider unavailable")

	case errors.Is(err, domain.ErrTokenGeneration):
		return echo.NewHTTPError(http.StatusInternalServerError, "token generation error")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
