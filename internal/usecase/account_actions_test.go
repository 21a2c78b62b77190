package usecase

import (
	"context"
	"log/slog"
	"testing"

	"wallet-bridge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAccountClient implements domain.AccountClient.
type stubAccountClient struct {
	message   string
	status    string
	err       error
	lastToken string
	calls     int
}

func (s *stubAccountClient) RedeemReferral(_ context.Context, token, _ string) (string, error) {
	s.calls++
	s.lastToken = token
	return s.message, s.err
}

func (s *stubAccountClient) Claim(_ context.Context, token, _ string) (string, error) {
	s.calls++
	s.lastToken = token
	return s.message, s.err
}

func (s *stubAccountClient) RequestDeletion(_ context.Context, token string) (string, string, error) {
	s.calls++
	s.lastToken = token
	return s.status, s.message, s.err
}

func TestAccountActions_RedeemReferral(t *testing.T) {
	session := newMockSessionState("tok-1")
	client := &stubAccountClient{message: "Referral redeemed"}
	actions := NewAccountActions(session, client, slog.Default())

	msg, err := actions.RedeemReferral(context.Background(), "ref12345")

	require.NoError(t, err)
	assert.Equal(t, "Referral redeemed", msg)
	assert.Equal(t, "tok-1", client.lastToken)
	assert.Zero(t, session.invalidationCount())
}

func TestAccountActions_RedeemReferral_Anonymous(t *testing.T) {
	session := newMockSessionState("")
	client := &stubAccountClient{message: "ok"}
	actions := NewAccountActions(session, client, slog.Default())

	_, err := actions.RedeemReferral(context.Background(), "ref12345")

	require.NoError(t, err)
	assert.Empty(t, client.lastToken, "no local token sends the request anonymously")
}

func TestAccountActions_UnauthorizedClearsSession(t *testing.T) {
	session := newMockSessionState("tok-1")
	client := &stubAccountClient{err: domain.ErrUnauthorized}
	actions := NewAccountActions(session, client, slog.Default())

	_, err := actions.Claim(context.Background(), "tap-payload")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 1, session.invalidationCount(), "a backend 401 logs the session out locally")
	_, has := session.Token()
	assert.False(t, has)
}

func TestAccountActions_AnonymousUnauthorizedDoesNotInvalidate(t *testing.T) {
	session := newMockSessionState("")
	client := &stubAccountClient{err: domain.ErrUnauthorized}
	actions := NewAccountActions(session, client, slog.Default())

	_, err := actions.RedeemReferral(context.Background(), "ref12345")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, session.invalidationCount(), "nothing to clear without a session")
}

func TestAccountActions_NetworkFailureKeepsSession(t *testing.T) {
	session := newMockSessionState("tok-1")
	client := &stubAccountClient{err: domain.ErrNetwork}
	actions := NewAccountActions(session, client, slog.Default())

	_, _, err := actions.RequestDeletion(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Zero(t, session.invalidationCount(), "transient failures never log the user out")
}

func TestAccountActions_NoToken_RejectedWithoutCall(t *testing.T) {
	session := newMockSessionState("")
	client := &stubAccountClient{}
	actions := NewAccountActions(session, client, slog.Default())

	_, err := actions.Claim(context.Background(), "tap-payload")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = actions.RequestDeletion(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Zero(t, client.calls)
}

func TestAccountActions_RequestDeletion(t *testing.T) {
	session := newMockSessionState("tok-1")
	client := &stubAccountClient{status: "pending", message: "Deletion request received"}
	actions := NewAccountActions(session, client, slog.Default())

	status, message, err := actions.RequestDeletion(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "pending", status)
	assert.Equal(t, "Deletion request received", message)
}
