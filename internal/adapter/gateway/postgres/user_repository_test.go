package postgres

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"wallet-bridge/internal/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRepository(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return NewUserRepository(mockDB, slog.Default()), mockDB
}

func userRows(id uuid.UUID, subject string) *pgxmock.Rows {
	now := time.Now()
	evm := "0xabc"
	return pgxmock.NewRows([]string{
		"id", "subject", "wallet_id", "evm_address", "solana_address", "movement_address",
		"referral_code", "referral_count", "referred_by", "deletion_requested_at",
		"created_at", "updated_at",
	}).AddRow(id, subject, nil, &evm, nil, nil, "code1234", 0, nil, nil, now, now)
}

func TestGetBySubject_Found(t *testing.T) {
	repo, mockDB := createTestRepository(t)
	id := uuid.New()

	mockDB.ExpectQuery("SELECT(.|\n)*FROM users WHERE subject").
		WithArgs("o1:u1").
		WillReturnRows(userRows(id, "o1:u1"))

	user, err := repo.GetBySubject(context.Background(), "o1:u1")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "0xabc", user.EVMAddress)
	assert.Empty(t, user.SolanaAddress)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestGetBySubject_NotFound(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectQuery("SELECT(.|\n)*FROM users WHERE subject").
		WithArgs("o1:missing").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetBySubject(context.Background(), "o1:missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestCreate_AssignsIDAndReferralCode(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "o1:u1", pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 0,
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	user := &domain.User{Subject: "o1:u1"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEmpty(t, user.ReferralCode)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestAttachWallet_UpdatesAddresses(t *testing.T) {
	repo, mockDB := createTestRepository(t)
	id := uuid.New()

	mockDB.ExpectQuery("UPDATE users SET(.|\n)*RETURNING").
		WithArgs("o1:u1", "w1", "0xabc", "sol1", "", pgxmock.AnyArg()).
		WillReturnRows(userRows(id, "o1:u1"))

	user, err := repo.AttachWallet(context.Background(), "o1:u1", "w1", []domain.ChainAddress{
		{Chain: domain.ChainEVM, Address: "0xabc"},
		{Chain: domain.ChainSolana, Address: "sol1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1:u1", user.Subject)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestAttachWallet_UnknownSubject(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectQuery("UPDATE users SET(.|\n)*RETURNING").
		WithArgs("o1:missing", "w1", "", "", "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.AttachWallet(context.Background(), "o1:missing", "w1", nil)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRedeemReferral_Success(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectQuery("SELECT subject FROM users WHERE referral_code").
		WithArgs("code1234").
		WillReturnRows(pgxmock.NewRows([]string{"subject"}).AddRow("o1:referrer"))
	mockDB.ExpectExec("UPDATE users SET referred_by").
		WithArgs("o1:u1", "code1234", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockDB.ExpectExec("UPDATE users SET referral_count").
		WithArgs("o1:referrer", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.RedeemReferral(context.Background(), "o1:u1", "code1234"))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestRedeemReferral_UnknownCode(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectQuery("SELECT subject FROM users WHERE referral_code").
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"subject"}))

	err := repo.RedeemReferral(context.Background(), "o1:u1", "nope")
	assert.ErrorIs(t, err, domain.ErrReferralNotFound)
}

func TestRedeemReferral_OwnCode(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectQuery("SELECT subject FROM users WHERE referral_code").
		WithArgs("code1234").
		WillReturnRows(pgxmock.NewRows([]string{"subject"}).AddRow("o1:u1"))

	err := repo.RedeemReferral(context.Background(), "o1:u1", "code1234")
	assert.ErrorIs(t, err, domain.ErrSelfReferral)
}

func TestRedeemReferral_AlreadyRedeemed(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectQuery("SELECT subject FROM users WHERE referral_code").
		WithArgs("code1234").
		WillReturnRows(pgxmock.NewRows([]string{"subject"}).AddRow("o1:referrer"))
	mockDB.ExpectExec("UPDATE users SET referred_by").
		WithArgs("o1:u1", "code1234", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.RedeemReferral(context.Background(), "o1:u1", "code1234")
	assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)
}

func TestRecordClaim(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectExec("INSERT INTO claims").
		WithArgs(pgxmock.AnyArg(), "o1:u1", "auth-code", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.RecordClaim(context.Background(), "o1:u1", "auth-code"))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestMarkDeletionRequested_Idempotent(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectExec("UPDATE users SET deletion_requested_at").
		WithArgs("o1:u1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mockDB.ExpectQuery("SELECT EXISTS").
		WithArgs("o1:u1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	assert.NoError(t, repo.MarkDeletionRequested(context.Background(), "o1:u1"))
}

func TestMarkDeletionRequested_UnknownSubject(t *testing.T) {
	repo, mockDB := createTestRepository(t)

	mockDB.ExpectExec("UPDATE users SET deletion_requested_at").
		WithArgs("o1:missing", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mockDB.ExpectQuery("SELECT EXISTS").
		WithArgs("o1:missing").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.MarkDeletionRequested(context.Background(), "o1:missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
