package usecase

import (
	"context"
	"log/slog"

	"wallet-bridge/internal/domain"
)

// GetProfile serves the backend's view of the authenticated user.
type GetProfile struct {
	users           domain.UserRepository
	referralBaseURL string
	logger          *slog.Logger
}

// NewGetProfile creates a new profile usecase.
func NewGetProfile(u domain.UserRepository, referralBaseURL string, l *slog.Logger) *GetProfile {
	return &GetProfile{users: u, referralBaseURL: referralBaseURL, logger: l}
}

// Execute returns the profile for subject, or ErrProfileNotFound.
func (uc *GetProfile) Execute(ctx context.Context, subject string) (*domain.UserProfile, error) {
	user, err := uc.users.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	return user.Profile(uc.referralBaseURL), nil
}
