package handler

import (
	"net/http"
	"strings"

	"wallet-bridge/internal/domain"
	"wallet-bridge/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ExchangeHandler handles both credential exchange endpoints.
type ExchangeHandler struct {
	delegated *usecase.ExchangeSession
	signature *usecase.ExchangeSignature
}

// NewExchangeHandler creates a new exchange handler.
func NewExchangeHandler(delegated *usecase.ExchangeSession, signature *usecase.ExchangeSignature) *ExchangeHandler {
	return &ExchangeHandler{delegated: delegated, signature: signature}
}

// exchangeRequest carries the provider-issued session credential. The
// credential may arrive in the body or as a bearer header; the body wins
// when both are present.
type exchangeRequest struct {
	TurnkeyJWT string `json:"turnkeyJwt"`
}

// exchangeUser identifies the delegated provider session.
type exchangeUser struct {
	TkUserID string `json:"tkUserId"`
	TkOrgID  string `json:"tkOrgId"`
}

// exchangeResponse is the delegated exchange payload.
type exchangeResponse struct {
	AppJWT  string                `json:"appJwt"`
	User    exchangeUser          `json:"user"`
	Wallets []domain.WalletStatus `json:"wallets"`
}

// HandleDelegated processes POST /api/auth/exchange.
func (h *ExchangeHandler) HandleDelegated(c echo.Context) error {
	var req exchangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	credential := strings.TrimSpace(req.TurnkeyJWT)
	if credential == "" {
		credential = headerCredential(c)
	}
	if credential == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session credential required")
	}

	result, err := h.delegated.Execute(c.Request().Context(), credential)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, exchangeResponse{
		AppJWT:  result.AppJWT,
		User:    exchangeUser{TkUserID: result.UserID, TkOrgID: result.OrgID},
		Wallets: result.Wallets,
	})
}

// signatureExchangeRequest carries a signed plaintext message.
type signatureExchangeRequest struct {
	Address   string `json:"address" validate:"required,eth_addr"`
	Message   string `json:"message" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// signatureUser identifies the recovered signer.
type signatureUser struct {
	EVMAddress string `json:"evmAddress"`
}

// signatureExchangeResponse is the message-signature exchange payload.
type signatureExchangeResponse struct {
	AppJWT string        `json:"appJwt"`
	User   signatureUser `json:"user"`
}

// HandleSignature processes POST /api/auth/evm-exchange.
func (h *ExchangeHandler) HandleSignature(c echo.Context) error {
	var req signatureExchangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.signature.Execute(c.Request().Context(), req.Address, req.Message, req.Signature)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, signatureExchangeResponse{
		AppJWT: result.AppJWT,
		User:   signatureUser{EVMAddress: result.EVMAddress},
	})
}

func headerCredential(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
