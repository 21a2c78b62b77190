package usecase

import (
	"log/slog"
	"time"

	"wallet-bridge/internal/domain"
)

// SessionManager is the single mutation surface for local session state.
// Every mutation goes through the store's own save/clear operations and is
// followed by a token-updated broadcast, so no consumer can observe a
// store change without a signal.
// Implements domain.SessionState.
type SessionManager struct {
	store  domain.TokenStore
	bus    domain.Broadcaster
	logger *slog.Logger
}

// NewSessionManager creates a new session manager.
func NewSessionManager(store domain.TokenStore, bus domain.Broadcaster, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		bus:    bus,
		logger: logger.With("component", "session_manager"),
	}
}

// Token returns the current session token, if any.
func (m *SessionManager) Token() (string, bool) {
	return m.store.Token()
}

// HasToken reports whether a session token is present locally.
func (m *SessionManager) HasToken() bool {
	_, found := m.store.Token()
	return found
}

// SaveToken stores a freshly exchanged session token and signals.
func (m *SessionManager) SaveToken(token string) {
	m.store.SaveToken(token)
	m.bus.Broadcast()
}

// Persist records a successful verification: token, profile snapshot,
// cached wallet addresses, and the verification timestamp, then signals
// once.
func (m *SessionManager) Persist(token string, profile *domain.UserProfile, verifiedAt time.Time) {
	m.store.SaveToken(token)
	if profile != nil {
		m.store.SaveProfile(profile)
		m.store.SaveWalletAddresses(profile.Addresses())
	}
	m.store.SaveVerifiedAt(verifiedAt)
	m.bus.Broadcast()
}

// Invalidate clears all session state from both backing stores and
// signals exactly once. Used for logout and fatal verification failure.
func (m *SessionManager) Invalidate() {
	m.store.Clear()
	m.bus.Broadcast()
}

// Logout ends the session.
func (m *SessionManager) Logout() {
	m.logger.Info("session logout")
	m.Invalidate()
}

// Profile returns the cached profile snapshot, if any. Best effort; never
// a source of truth for authorization.
func (m *SessionManager) Profile() (*domain.UserProfile, bool) {
	return m.store.Profile()
}

// VerifiedAt returns the last successful verification timestamp.
func (m *SessionManager) VerifiedAt() (time.Time, bool) {
	return m.store.VerifiedAt()
}

var _ domain.SessionState = (*SessionManager)(nil)
