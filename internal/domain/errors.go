package domain

import "errors"

// Exchange errors. Returned directly to the caller of the exchange endpoints.
var (
	ErrInvalidCredential = errors.New("invalid identity credential")
	ErrCredentialExpired = errors.New("identity credential expired")
	ErrMissingClaims     = errors.New("identity credential missing required claims")
	ErrInvalidSignature  = errors.New("signature does not match address")
	ErrTokenGeneration   = errors.New("token generation failed")
)

// Reconciliation errors. Resolved to state transitions inside the
// verification flow, never left unhandled.
var (
	ErrUnauthorized        = errors.New("session token rejected")
	ErrProfileNotFound     = errors.New("no backend profile for subject")
	ErrRegistrationFailed  = errors.New("wallet registration rejected")
	ErrRegistrationBlocked = errors.New("wallet could not be resolved in time")
	ErrWalletCreation      = errors.New("wallet creation failed")
	ErrNetwork             = errors.New("backend unreachable")
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
)

// Server-side record errors.
var (
	ErrReferralNotFound = errors.New("referral code not found")
	ErrSelfReferral     = errors.New("cannot redeem own referral code")
	ErrAlreadyRedeemed  = errors.New("referral already redeemed")
	ErrClaimInvalid     = errors.New("claim authorization invalid")
)
