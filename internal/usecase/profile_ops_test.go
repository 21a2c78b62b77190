package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"wallet-bridge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAccounts implements domain.WalletProvider where only account
// resolution matters.
type stubAccounts struct {
	addrs []domain.ChainAddress
	err   error
}

func (s *stubAccounts) ListWallets(context.Context) ([]domain.Wallet, error) { return nil, nil }

func (s *stubAccounts) CreateWallet(context.Context, string, []domain.ChainKind) error { return nil }

func (s *stubAccounts) WalletAccounts(context.Context, string) ([]domain.ChainAddress, error) {
	return s.addrs, s.err
}

func TestGetProfile(t *testing.T) {
	users := newStubUsers()
	users.users["s1"] = &domain.User{
		Subject:       "s1",
		EVMAddress:    "0xabc",
		ReferralCode:  "ref12345",
		ReferralCount: 3,
	}
	uc := NewGetProfile(users, "https://app.example.com", slog.Default())

	profile, err := uc.Execute(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", profile.EVMAddress)
	assert.Equal(t, "https://app.example.com/r/ref12345", profile.ReferralLink)
	assert.Equal(t, 3, profile.ReferralCount)
}

func TestGetProfile_NotFound(t *testing.T) {
	uc := NewGetProfile(newStubUsers(), "https://app.example.com", slog.Default())

	_, err := uc.Execute(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRegisterWallet_AttachesAndResolvesAddresses(t *testing.T) {
	users := newStubUsers()
	users.users["s1"] = &domain.User{Subject: "s1"}
	provider := &stubAccounts{addrs: []domain.ChainAddress{
		{Chain: domain.ChainEVM, Address: "0xabc"},
		{Chain: domain.ChainSolana, Address: "sol1"},
	}}
	uc := NewRegisterWallet(users, provider, "https://app.example.com", slog.Default())

	profile, err := uc.Execute(context.Background(), "s1", "w1")
	require.NoError(t, err)

	assert.Equal(t, []string{"w1"}, users.attached)
	assert.Equal(t, "0xabc", profile.EVMAddress)
	assert.Equal(t, "sol1", profile.SolanaAddress)
}

func TestRegisterWallet_CreatesMissingRecord(t *testing.T) {
	users := newStubUsers()
	uc := NewRegisterWallet(users, &stubAccounts{}, "https://app.example.com", slog.Default())

	_, err := uc.Execute(context.Background(), "s1", "w1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, users.created)
	assert.Equal(t, []string{"w1"}, users.attached)
}

func TestRegisterWallet_AddressResolutionIsBestEffort(t *testing.T) {
	users := newStubUsers()
	users.users["s1"] = &domain.User{Subject: "s1"}
	provider := &stubAccounts{err: domain.ErrProviderUnavailable}
	uc := NewRegisterWallet(users, provider, "https://app.example.com", slog.Default())

	_, err := uc.Execute(context.Background(), "s1", "w1")
	require.NoError(t, err, "registration survives a slow provider")
	assert.Equal(t, []string{"w1"}, users.attached)
}

func TestRedeemReferral(t *testing.T) {
	users := newStubUsers()
	uc := NewRedeemReferral(users, slog.Default())

	msg, err := uc.Execute(context.Background(), "s1", "ref12345")
	require.NoError(t, err)
	assert.Equal(t, "Referral redeemed", msg)
}

func TestRedeemReferral_ErrorsPassThrough(t *testing.T) {
	for _, redeemErr := range []error{
		domain.ErrReferralNotFound,
		domain.ErrSelfReferral,
		domain.ErrAlreadyRedeemed,
	} {
		users := newStubUsers()
		users.redeemErr = redeemErr
		uc := NewRedeemReferral(users, slog.Default())

		_, err := uc.Execute(context.Background(), "s1", "ref12345")
		assert.ErrorIs(t, err, redeemErr)
	}
}

func TestClaimCard(t *testing.T) {
	users := newStubUsers()
	uc := NewClaimCard(users, slog.Default())

	msg, err := uc.Execute(context.Background(), "s1", "auth-payload")
	require.NoError(t, err)
	assert.Equal(t, "Claim accepted", msg)
	assert.Equal(t, []string{"auth-payload"}, users.claims)
}

func TestClaimCard_BlankAuthorizationRejected(t *testing.T) {
	users := newStubUsers()
	uc := NewClaimCard(users, slog.Default())

	_, err := uc.Execute(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, domain.ErrClaimInvalid)
	assert.Empty(t, users.claims)
}

func TestRequestDeletion(t *testing.T) {
	users := newStubUsers()
	users.users["s1"] = &domain.User{Subject: "s1"}
	uc := NewRequestDeletion(users, slog.Default())

	result, err := uc.Execute(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, []string{"s1"}, users.markedGone)

	// Repeated requests are accepted.
	_, err = uc.Execute(context.Background(), "s1")
	require.NoError(t, err)
}

func TestRequestDeletion_UnknownSubject(t *testing.T) {
	uc := NewRequestDeletion(newStubUsers(), slog.Default())

	_, err := uc.Execute(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
}
