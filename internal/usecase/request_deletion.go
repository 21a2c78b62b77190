package usecase

import (
	"context"
	"log/slog"

	"wallet-bridge/internal/domain"
)

// DeletionResult is the deletion-request response payload.
type DeletionResult struct {
	Status  string
	Message string
}

// RequestDeletion starts the soft account-deletion workflow. The backend
// confirms key export is complete before actual deletion happens, so this
// only flags the record.
type RequestDeletion struct {
	users  domain.UserRepository
	logger *slog.Logger
}

// NewRequestDeletion creates a new deletion-request usecase.
func NewRequestDeletion(u domain.UserRepository, l *slog.Logger) *RequestDeletion {
	return &RequestDeletion{users: u, logger: l}
}

// Execute flags subject for deletion. Repeated requests are accepted.
func (uc *RequestDeletion) Execute(ctx context.Context, subject string) (*DeletionResult, error) {
	if err := uc.users.MarkDeletionRequested(ctx, subject); err != nil {
		return nil, err
	}
	uc.logger.InfoContext(ctx, "deletion requested", "subject", subject)
	return &DeletionResult{
		Status:  "pending",
		Message: "Deletion request received; complete key export to finalize.",
	}, nil
}
