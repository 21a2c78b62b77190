package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChainKind identifies a supported blockchain address family.
type ChainKind string

const (
	ChainEVM      ChainKind = "evm"
	ChainSolana   ChainKind = "solana"
	ChainMovement ChainKind = "movement"
)

// SupportedChains lists the address families requested at wallet creation.
var SupportedChains = []ChainKind{ChainEVM, ChainSolana, ChainMovement}

// ChainAddress is one address of a provider-managed wallet.
type ChainAddress struct {
	Chain   ChainKind `json:"chain"`
	Address string    `json:"address"`
}

// Wallet is a provider-managed signing identity, held by reference.
type Wallet struct {
	ID       string
	Name     string
	Accounts []ChainAddress
}

// UserProfile is the backend's view of a user, cached client-side as a
// best-effort snapshot. It is never a source of truth for authorization.
type UserProfile struct {
	EVMAddress      string `json:"evmAddress,omitempty"`
	SolanaAddress   string `json:"solanaAddress,omitempty"`
	MovementAddress string `json:"movementAddress,omitempty"`
	ReferralLink    string `json:"referralLink,omitempty"`
	ReferralCount   int    `json:"referralCount"`
}

// HasAddress reports whether the backend knows any chain address for the
// user. Presence of an address means a wallet already exists and a second
// one must never be created.
func (p *UserProfile) HasAddress() bool {
	if p == nil {
		return false
	}
	return p.EVMAddress != "" || p.SolanaAddress != "" || p.MovementAddress != ""
}

// Addresses returns the profile's addresses tagged by chain kind.
func (p *UserProfile) Addresses() []ChainAddress {
	if p == nil {
		return nil
	}
	var out []ChainAddress
	if p.EVMAddress != "" {
		out = append(out, ChainAddress{Chain: ChainEVM, Address: p.EVMAddress})
	}
	if p.SolanaAddress != "" {
		out = append(out, ChainAddress{Chain: ChainSolana, Address: p.SolanaAddress})
	}
	if p.MovementAddress != "" {
		out = append(out, ChainAddress{Chain: ChainMovement, Address: p.MovementAddress})
	}
	return out
}

// WalletStatus describes provisioning progress for one chain family in
// exchange responses.
type WalletStatus struct {
	Chain   ChainKind `json:"chain"`
	Address string    `json:"address"`
	Status  string    `json:"status"`
}

// User is the backend's persisted user record.
type User struct {
	ID                  uuid.UUID
	Subject             string
	WalletID            string
	EVMAddress          string
	SolanaAddress       string
	MovementAddress     string
	ReferralCode        string
	ReferralCount       int
	ReferredBy          string
	DeletionRequestedAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Profile projects the record into the wire shape served by /auth/me.
func (u *User) Profile(referralBaseURL string) *UserProfile {
	p := &UserProfile{
		EVMAddress:      u.EVMAddress,
		SolanaAddress:   u.SolanaAddress,
		MovementAddress: u.MovementAddress,
		ReferralCount:   u.ReferralCount,
	}
	if u.ReferralCode != "" && referralBaseURL != "" {
		p.ReferralLink = referralBaseURL + "/r/" + u.ReferralCode
	}
	return p
}

// WalletStatuses reports per-chain provisioning state for exchange responses.
func (u *User) WalletStatuses() []WalletStatus {
	addr := map[ChainKind]string{
		ChainEVM:      u.EVMAddress,
		ChainSolana:   u.SolanaAddress,
		ChainMovement: u.MovementAddress,
	}
	statuses := make([]WalletStatus, 0, len(SupportedChains))
	for _, chain := range SupportedChains {
		status := "pending"
		if addr[chain] != "" {
			status = "active"
		}
		statuses = append(statuses, WalletStatus{Chain: chain, Address: addr[chain], Status: status})
	}
	return statuses
}
