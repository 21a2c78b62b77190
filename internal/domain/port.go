package domain

import (
	"context"
	"time"
)

// CredentialVerifier checks a provider-issued session credential and
// extracts its claims. Signature failures map to ErrInvalidCredential,
// a past expiry to ErrCredentialExpired, absent subject/organization to
// ErrMissingClaims, in that order.
type CredentialVerifier interface {
	Verify(credential string) (*IdentityClaims, error)
}

// SignatureVerifier checks a plaintext-message signature and returns the
// canonical checksummed signer address, or ErrInvalidSignature.
type SignatureVerifier interface {
	RecoverSigner(address, message, signature string) (string, error)
}

// TokenIssuer mints application session tokens.
type TokenIssuer interface {
	// IssueDelegated mints a token for a delegated provider session.
	// The subject encodes organization:user.
	IssueDelegated(claims *IdentityClaims) (string, error)
	// IssueAddress mints a token whose subject is a checksummed address.
	IssueAddress(address string) (string, error)
}

// TokenVerifier validates an application session token and returns its
// subject. Invalid or expired tokens map to ErrUnauthorized.
type TokenVerifier interface {
	VerifySessionToken(token string) (string, error)
}

// TokenStore is the dual-backed client-side persistence for the session
// token and the cached reconciliation snapshots. Writes go to both backing
// stores best-effort-independently; reads prefer the durable backing.
type TokenStore interface {
	Token() (string, bool)
	SaveToken(token string)
	Profile() (*UserProfile, bool)
	SaveProfile(p *UserProfile)
	WalletAddresses() []ChainAddress
	SaveWalletAddresses(addrs []ChainAddress)
	VerifiedAt() (time.Time, bool)
	SaveVerifiedAt(t time.Time)
	Clear()
}

// Broadcaster publishes the token-updated invalidation signal.
type Broadcaster interface {
	Broadcast()
}

// SessionState is the mutation surface the verification machine uses.
// Both operations broadcast after mutating the store.
type SessionState interface {
	Token() (string, bool)
	Persist(token string, profile *UserProfile, verifiedAt time.Time)
	Invalidate()
}

// BackendClient talks to the reconciliation endpoints with bearer auth.
type BackendClient interface {
	// FetchMe returns ErrUnauthorized on 401, ErrProfileNotFound when the
	// backend has no record yet, and ErrNetwork on transport failure.
	FetchMe(ctx context.Context, token string) (*UserProfile, error)
	// RegisterWallet associates walletID with the authenticated subject.
	RegisterWallet(ctx context.Context, token, walletID string) (*UserProfile, error)
}

// AccountClient covers the authenticated account operations outside the
// verification flow. Each call maps a backend 401 to ErrUnauthorized.
type AccountClient interface {
	// RedeemReferral submits a referral code; an empty token sends the
	// request anonymously.
	RedeemReferral(ctx context.Context, token, code string) (string, error)
	// Claim submits a card-claim authorization.
	Claim(ctx context.Context, token, authorization string) (string, error)
	// RequestDeletion starts the account deletion workflow.
	RequestDeletion(ctx context.Context, token string) (status, message string, err error)
}

// WalletProvider is the identity provider's wallet surface.
type WalletProvider interface {
	// ListWallets returns the wallets currently visible for the session.
	ListWallets(ctx context.Context) ([]Wallet, error)
	// CreateWallet requests a wallet with one account per address format.
	// Provider-tagged creation failures map to ErrWalletCreation.
	CreateWallet(ctx context.Context, name string, chains []ChainKind) error
	// WalletAccounts resolves the addresses held by one wallet.
	WalletAccounts(ctx context.Context, walletID string) ([]ChainAddress, error)
}

// UserRepository is the backend's user record store.
type UserRepository interface {
	GetBySubject(ctx context.Context, subject string) (*User, error)
	Create(ctx context.Context, user *User) error
	AttachWallet(ctx context.Context, subject, walletID string, addrs []ChainAddress) (*User, error)
	RedeemReferral(ctx context.Context, subject, code string) error
	RecordClaim(ctx context.Context, subject, authorization string) error
	MarkDeletionRequested(ctx context.Context, subject string) error
}
