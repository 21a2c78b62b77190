package usecase

import (
	"context"
	"log/slog"

	"wallet-bridge/internal/domain"
)

// RedeemReferral credits a referral code to the redeeming subject.
type RedeemReferral struct {
	users  domain.UserRepository
	logger *slog.Logger
}

// NewRedeemReferral creates a new referral redemption usecase.
func NewRedeemReferral(u domain.UserRepository, l *slog.Logger) *RedeemReferral {
	return &RedeemReferral{users: u, logger: l}
}

// Execute redeems code for subject and returns a user-facing message.
func (uc *RedeemReferral) Execute(ctx context.Context, subject, code string) (string, error) {
	if err := uc.users.RedeemReferral(ctx, subject, code); err != nil {
		return "", err
	}
	uc.logger.InfoContext(ctx, "referral redeemed", "subject", subject)
	return "Referral redeemed", nil
}
