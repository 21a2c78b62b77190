package token

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"wallet-bridge/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// providerClaims mirrors the provider's session JWT payload.
type providerClaims struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	jwt.RegisteredClaims
}

// ProviderVerifier validates provider-issued session credentials against
// the provider's public verification key (ES256).
// Implements domain.CredentialVerifier.
type ProviderVerifier struct {
	key *ecdsa.PublicKey
	now func() time.Time
}

// NewProviderVerifier creates a verifier from a PEM-encoded public key.
func NewProviderVerifier(publicKeyPEM string) (*ProviderVerifier, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("provider public key: no PEM block found")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("provider public key: %w", err)
	}
	key, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("provider public key: not an ECDSA key")
	}
	return &ProviderVerifier{key: key, now: time.Now}, nil
}

// NewProviderVerifierFromKey creates a verifier from an already parsed key.
func NewProviderVerifierFromKey(key *ecdsa.PublicKey) *ProviderVerifier {
	return &ProviderVerifier{key: key, now: time.Now}
}

// Verify checks the credential's signature, then expiry, then required
// claims. Expiry is checked before claim content so an expired credential
// always reports as expired regardless of its payload.
func (v *ProviderVerifier) Verify(credential string) (*domain.IdentityClaims, error) {
	var claims providerClaims
	_, err := jwt.ParseWithClaims(credential, &claims,
		func(t *jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredential, err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
		if expiresAt.Before(v.now()) {
			return nil, domain.ErrCredentialExpired
		}
	}

	if claims.UserID == "" || claims.OrganizationID == "" {
		return nil, domain.ErrMissingClaims
	}

	return &domain.IdentityClaims{
		UserID:         claims.UserID,
		OrganizationID: claims.OrganizationID,
		ExpiresAt:      expiresAt,
	}, nil
}

var _ domain.CredentialVerifier = (*ProviderVerifier)(nil)
