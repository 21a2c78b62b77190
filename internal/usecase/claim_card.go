package usecase

import (
	"context"
	"log/slog"
	"strings"

	"wallet-bridge/internal/domain"
)

// ClaimCard records a card-claim authorization obtained from a card tap
// or QR scan.
type ClaimCard struct {
	users  domain.UserRepository
	logger *slog.Logger
}

// NewClaimCard creates a new claim usecase.
func NewClaimCard(u domain.UserRepository, l *slog.Logger) *ClaimCard {
	return &ClaimCard{users: u, logger: l}
}

// Execute validates and records the authorization for subject.
func (uc *ClaimCard) Execute(ctx context.Context, subject, authorization string) (string, error) {
	if strings.TrimSpace(authorization) == "" {
		return "", domain.ErrClaimInvalid
	}
	if err := uc.users.RecordClaim(ctx, subject, authorization); err != nil {
		return "", err
	}
	uc.logger.InfoContext(ctx, "claim recorded", "subject", subject)
	return "Claim accepted", nil
}
