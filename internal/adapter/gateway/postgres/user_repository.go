// Package postgres persists the backend's user records.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wallet-bridge/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// implements it for tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements domain.UserRepository for PostgreSQL.
type UserRepository struct {
	db     DB
	logger *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db DB, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "user_repository"),
	}
}

const userColumns = `
	id, subject, wallet_id, evm_address, solana_address, movement_address,
	referral_code, referral_count, referred_by, deletion_requested_at,
	created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user       domain.User
		walletID   *string
		evm        *string
		solana     *string
		movement   *string
		referredBy *string
	)
	err := row.Scan(
		&user.ID, &user.Subject, &walletID, &evm, &solana, &movement,
		&user.ReferralCode, &user.ReferralCount, &referredBy,
		&user.DeletionRequestedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if walletID != nil {
		user.WalletID = *walletID
	}
	if evm != nil {
		user.EVMAddress = *evm
	}
	if solana != nil {
		user.SolanaAddress = *solana
	}
	if movement != nil {
		user.MovementAddress = *movement
	}
	if referredBy != nil {
		user.ReferredBy = *referredBy
	}
	return &user, nil
}

// GetBySubject fetches a user record by session subject.
func (r *UserRepository) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE subject = $1`
	return scanUser(r.db.QueryRow(ctx, query, subject))
}

// Create inserts a new user record. Assigns ID and referral code when the
// caller left them empty.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.ReferralCode == "" {
		user.ReferralCode = uuid.NewString()[:8]
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (
			id, subject, wallet_id, evm_address, solana_address, movement_address,
			referral_code, referral_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Subject,
		nullable(user.WalletID), nullable(user.EVMAddress),
		nullable(user.SolanaAddress), nullable(user.MovementAddress),
		user.ReferralCode, user.ReferralCount, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	r.logger.InfoContext(ctx, "user created", "subject", user.Subject)
	return nil
}

// AttachWallet records the wallet id and any resolved addresses for the
// subject, returning the updated record.
func (r *UserRepository) AttachWallet(ctx context.Context, subject, walletID string, addrs []domain.ChainAddress) (*domain.User, error) {
	byChain := map[domain.ChainKind]string{}
	for _, addr := range addrs {
		byChain[addr.Chain] = addr.Address
	}

	query := `
		UPDATE users SET
			wallet_id = $2,
			evm_address = COALESCE(NULLIF($3, ''), evm_address),
			solana_address = COALESCE(NULLIF($4, ''), solana_address),
			movement_address = COALESCE(NULLIF($5, ''), movement_address),
			updated_at = $6
		WHERE subject = $1
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query,
		subject, walletID,
		byChain[domain.ChainEVM], byChain[domain.ChainSolana], byChain[domain.ChainMovement],
		time.Now(),
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("attach wallet: %w", err)
	}
	r.logger.InfoContext(ctx, "wallet attached", "subject", subject)
	return user, nil
}

// RedeemReferral links the subject to the owner of code and increments the
// owner's referral count. A user can redeem at most one code, never their
// own.
func (r *UserRepository) RedeemReferral(ctx context.Context, subject, code string) error {
	var referrerSubject string
	err := r.db.QueryRow(ctx, `SELECT subject FROM users WHERE referral_code = $1`, code).Scan(&referrerSubject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReferralNotFound
		}
		return fmt.Errorf("lookup referral code: %w", err)
	}
	if referrerSubject == subject {
		return domain.ErrSelfReferral
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE users SET referred_by = $2, updated_at = $3
		WHERE subject = $1 AND referred_by IS NULL`,
		subject, code, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("redeem referral: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyRedeemed
	}

	if _, err := r.db.Exec(ctx, `
		UPDATE users SET referral_count = referral_count + 1, updated_at = $2
		WHERE subject = $1`,
		referrerSubject, time.Now(),
	); err != nil {
		return fmt.Errorf("increment referral count: %w", err)
	}
	return nil
}

// RecordClaim stores a card-claim authorization for the subject.
func (r *UserRepository) RecordClaim(ctx context.Context, subject, authorization string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO claims (id, subject, authorization_code, created_at)
		VALUES ($1, $2, $3, $4)`,
		uuid.New(), subject, authorization, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("record claim: %w", err)
	}
	return nil
}

// MarkDeletionRequested flags the subject's record for the deletion
// workflow.
func (r *UserRepository) MarkDeletionRequested(ctx context.Context, subject string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET deletion_requested_at = $2, updated_at = $2
		WHERE subject = $1 AND deletion_requested_at IS NULL`,
		subject, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("mark deletion requested: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either no such user or already requested; both are terminal
		// for the caller.
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE subject = $1)`, subject).Scan(&exists); err != nil {
			return fmt.Errorf("mark deletion requested: %w", err)
		}
		if !exists {
			return domain.ErrProfileNotFound
		}
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ domain.UserRepository = (*UserRepository)(nil)
