package usecase

import (
	"context"
	"errors"
	"log/slog"

	"wallet-bridge/internal/domain"
)

// RegisterWallet associates a provider wallet with the authenticated
// subject and resolves the wallet's addresses server-side.
type RegisterWallet struct {
	users           domain.UserRepository
	provider        domain.WalletProvider
	referralBaseURL string
	logger          *slog.Logger
}

// NewRegisterWallet creates a new wallet registration usecase.
func NewRegisterWallet(u domain.UserRepository, p domain.WalletProvider, referralBaseURL string, l *slog.Logger) *RegisterWallet {
	return &RegisterWallet{users: u, provider: p, referralBaseURL: referralBaseURL, logger: l}
}

// Execute attaches walletID to subject, creating the record when the
// exchange has not landed one yet. Address resolution is best effort:
// registration itself must not fail because the provider is slow to
// report accounts.
func (uc *RegisterWallet) Execute(ctx context.Context, subject, walletID string) (*domain.UserProfile, error) {
	if _, err := uc.users.GetBySubject(ctx, subject); errors.Is(err, domain.ErrProfileNotFound) {
		if err := uc.users.Create(ctx, &domain.User{Subject: subject}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	addrs, err := uc.provider.WalletAccounts(ctx, walletID)
	if err != nil {
		uc.logger.WarnContext(ctx, "could not resolve wallet accounts", "error", err)
		addrs = nil
	}

	user, err := uc.users.AttachWallet(ctx, subject, walletID, addrs)
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "wallet registered", "subject", subject)
	return user.Profile(uc.referralBaseURL), nil
}
