package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wallet-bridge/internal/domain"
)

// SignatureExchangeResult is the message-signature exchange response.
type SignatureExchangeResult struct {
	AppJWT     string
	EVMAddress string
}

// ExchangeSignature converts a signed plaintext message into an
// application session token whose subject is the checksummed address.
type ExchangeSignature struct {
	verifier domain.SignatureVerifier
	issuer   domain.TokenIssuer
	users    domain.UserRepository
	logger   *slog.Logger
}

// NewExchangeSignature creates a new message-signature exchange usecase.
func NewExchangeSignature(v domain.SignatureVerifier, i domain.TokenIssuer, u domain.UserRepository, l *slog.Logger) *ExchangeSignature {
	return &ExchangeSignature{verifier: v, issuer: i, users: u, logger: l}
}

// Execute verifies the signature and mints a session token. No token is
// issued and no record is touched on a failed signature check.
func (uc *ExchangeSignature) Execute(ctx context.Context, address, message, signature string) (*SignatureExchangeResult, error) {
	checksummed, err := uc.verifier.RecoverSigner(address, message, signature)
	if err != nil {
		return nil, err
	}

	appJWT, err := uc.issuer.IssueAddress(checksummed)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to issue session token", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}

	if _, err := uc.users.GetBySubject(ctx, checksummed); errors.Is(err, domain.ErrProfileNotFound) {
		user := &domain.User{Subject: checksummed, EVMAddress: checksummed}
		if err := uc.users.Create(ctx, user); err != nil {
			uc.logger.ErrorContext(ctx, "failed to create user record", "error", err)
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return &SignatureExchangeResult{AppJWT: appJWT, EVMAddress: checksummed}, nil
}
