package storage

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"wallet-bridge/internal/domain"
)

// Persisted keys. All namespaced, all best effort, all safe to lose.
const (
	keyToken      = "app_jwt"
	keyProfile    = "user_me"
	keyWallets    = "user_wallets"
	keyVerifiedAt = "app_jwt_verified_at"
)

// TokenStore is the dual-backed session store.
// Implements domain.TokenStore.
type TokenStore struct {
	durable Backing
	fast    Backing
	logger  *slog.Logger
}

// NewTokenStore creates a store over a durable and a fast backing.
func NewTokenStore(durable, fast Backing, logger *slog.Logger) *TokenStore {
	return &TokenStore{
		durable: durable,
		fast:    fast,
		logger:  logger.With("component", "token_store"),
	}
}

// set writes to both backings. A failure in one must not abort the other.
func (s *TokenStore) set(key, value string) {
	if err := s.durable.Set(key, value); err != nil {
		s.logger.Warn("durable write failed", "key", key, "error", err)
	}
	if err := s.fast.Set(key, value); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// get prefers the durable backing, falling back to the fast cache when the
// durable store is unavailable or empty.
func (s *TokenStore) get(key string) (string, bool) {
	if value, found, err := s.durable.Get(key); err == nil && found {
		return value, true
	} else if err != nil {
		s.logger.Warn("durable read failed", "key", key, "error", err)
	}
	if value, found, err := s.fast.Get(key); err == nil && found {
		return value, true
	}
	return "", false
}

// delete removes from both backings; failures are swallowed by contract.
func (s *TokenStore) delete(key string) {
	if err := s.durable.Delete(key); err != nil {
		s.logger.Warn("durable delete failed", "key", key, "error", err)
	}
	if err := s.fast.Delete(key); err != nil {
		s.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}

// Token returns the stored session token, if any.
func (s *TokenStore) Token() (string, bool) {
	return s.get(keyToken)
}

// SaveToken persists the session token to both backings.
func (s *TokenStore) SaveToken(token string) {
	s.set(keyToken, token)
}

// Profile returns the cached user profile snapshot, if any.
func (s *TokenStore) Profile() (*domain.UserProfile, bool) {
	raw, found := s.get(keyProfile)
	if !found {
		return nil, false
	}
	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

// SaveProfile caches the user profile snapshot.
func (s *TokenStore) SaveProfile(p *domain.UserProfile) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	s.set(keyProfile, string(raw))
}

// WalletAddresses returns the cached wallet address list.
func (s *TokenStore) WalletAddresses() []domain.ChainAddress {
	raw, found := s.get(keyWallets)
	if !found {
		return nil
	}
	var addrs []domain.ChainAddress
	if err := json.Unmarshal([]byte(raw), &addrs); err != nil {
		return nil
	}
	return addrs
}

// SaveWalletAddresses caches the wallet address list.
func (s *TokenStore) SaveWalletAddresses(addrs []domain.ChainAddress) {
	raw, err := json.Marshal(addrs)
	if err != nil {
		return
	}
	s.set(keyWallets, string(raw))
}

// VerifiedAt returns the last successful verification timestamp.
func (s *TokenStore) VerifiedAt() (time.Time, bool) {
	raw, found := s.get(keyVerifiedAt)
	if !found {
		return time.Time{}, false
	}
	unixMilli, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(unixMilli), true
}

// SaveVerifiedAt records the last successful verification timestamp.
func (s *TokenStore) SaveVerifiedAt(t time.Time) {
	s.set(keyVerifiedAt, strconv.FormatInt(t.UnixMilli(), 10))
}

// Clear removes every session key from both backings. Never errors.
func (s *TokenStore) Clear() {
	for _, key := range []string{keyToken, keyProfile, keyWallets, keyVerifiedAt} {
		s.delete(key)
	}
}

var _ domain.TokenStore = (*TokenStore)(nil)
