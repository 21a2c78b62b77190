package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wallet-bridge/internal/domain"
)

// ExchangeResult is the delegated-session exchange response payload.
type ExchangeResult struct {
	AppJWT  string
	UserID  string
	OrgID   string
	Wallets []domain.WalletStatus
}

// ExchangeSession converts a provider-issued session credential into an
// application session token, upserting the backend user record.
type ExchangeSession struct {
	verifier domain.CredentialVerifier
	issuer   domain.TokenIssuer
	users    domain.UserRepository
	logger   *slog.Logger
}

// NewExchangeSession creates a new delegated-session exchange usecase.
func NewExchangeSession(v domain.CredentialVerifier, i domain.TokenIssuer, u domain.UserRepository, l *slog.Logger) *ExchangeSession {
	return &ExchangeSession{verifier: v, issuer: i, users: u, logger: l}
}

// Execute verifies the credential and mints an application session token.
// Verification errors pass through to the caller untouched so the handler
// can map them to exchange-time HTTP statuses.
func (uc *ExchangeSession) Execute(ctx context.Context, credential string) (*ExchangeResult, error) {
	claims, err := uc.verifier.Verify(credential)
	if err != nil {
		return nil, err
	}

	appJWT, err := uc.issuer.IssueDelegated(claims)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to issue session token", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}

	user, err := uc.users.GetBySubject(ctx, claims.Subject())
	if errors.Is(err, domain.ErrProfileNotFound) {
		user = &domain.User{Subject: claims.Subject()}
		if err := uc.users.Create(ctx, user); err != nil {
			uc.logger.ErrorContext(ctx, "failed to create user record", "error", err)
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return &ExchangeResult{
		AppJWT:  appJWT,
		UserID:  claims.UserID,
		OrgID:   claims.OrganizationID,
		Wallets: user.WalletStatuses(),
	}, nil
}
