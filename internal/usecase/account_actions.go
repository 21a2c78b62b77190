package usecase

import (
	"context"
	"errors"
	"log/slog"

	"wallet-bridge/internal/domain"
)

// AccountActions runs the authenticated account operations against the
// backend. When the backend rejects the session token, the local session is
// cleared and the token-updated signal broadcast, the same reaction the
// verification machine applies, so every consumer observes the logout.
type AccountActions struct {
	session domain.SessionState
	client  domain.AccountClient
	logger  *slog.Logger
}

// NewAccountActions creates a new account action runner.
func NewAccountActions(session domain.SessionState, client domain.AccountClient, logger *slog.Logger) *AccountActions {
	return &AccountActions{
		session: session,
		client:  client,
		logger:  logger.With("component", "account_actions"),
	}
}

// RedeemReferral submits a referral code. Runs anonymously when no local
// token is present.
func (a *AccountActions) RedeemReferral(ctx context.Context, code string) (string, error) {
	token, _ := a.session.Token()
	message, err := a.client.RedeemReferral(ctx, token, code)
	return message, a.react(token, err)
}

// Claim submits a card-claim authorization for the current session.
func (a *AccountActions) Claim(ctx context.Context, authorization string) (string, error) {
	token, found := a.session.Token()
	if !found {
		return "", domain.ErrUnauthorized
	}
	message, err := a.client.Claim(ctx, token, authorization)
	return message, a.react(token, err)
}

// RequestDeletion starts the account deletion workflow for the current
// session.
func (a *AccountActions) RequestDeletion(ctx context.Context) (status, message string, err error) {
	token, found := a.session.Token()
	if !found {
		return "", "", domain.ErrUnauthorized
	}
	status, message, err = a.client.RequestDeletion(ctx, token)
	return status, message, a.react(token, err)
}

// react clears the session when the backend rejected the token it was sent.
// An anonymous call has no session to clear.
func (a *AccountActions) react(token string, err error) error {
	if err != nil && token != "" && errors.Is(err, domain.ErrUnauthorized) {
		a.logger.Warn("session rejected by backend, clearing local state")
		a.session.Invalidate()
	}
	return err
}
