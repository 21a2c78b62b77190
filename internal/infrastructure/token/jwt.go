package token

import (
	"fmt"
	"time"

	"wallet-bridge/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds application session token settings.
type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// sessionClaims are the application session token claims.
type sessionClaims struct {
	TkUserID string `json:"tkUserId,omitempty"`
	TkOrgID  string `json:"tkOrgId,omitempty"`
	Kind     string `json:"kind,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer mints and validates application session tokens.
// Implements domain.TokenIssuer and domain.TokenVerifier.
type JWTIssuer struct {
	cfg JWTConfig
}

// NewJWTIssuer creates a new session token issuer.
func NewJWTIssuer(cfg JWTConfig) *JWTIssuer {
	return &JWTIssuer{cfg: cfg}
}

// IssueDelegated mints a token for a verified provider session.
func (j *JWTIssuer) IssueDelegated(claims *domain.IdentityClaims) (string, error) {
	return j.sign(sessionClaims{
		TkUserID:         claims.UserID,
		TkOrgID:          claims.OrganizationID,
		RegisteredClaims: j.registered(claims.Subject()),
	})
}

// IssueAddress mints a token whose subject is a checksummed address.
func (j *JWTIssuer) IssueAddress(address string) (string, error) {
	return j.sign(sessionClaims{
		Kind:             string(domain.ChainEVM),
		RegisteredClaims: j.registered(address),
	})
}

func (j *JWTIssuer) registered(subject string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    j.cfg.Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.TTL)),
	}
}

func (j *JWTIssuer) sign(claims sessionClaims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}
	return signed, nil
}

// VerifySessionToken validates a session token and returns its subject.
func (j *JWTIssuer) VerifySessionToken(tokenString string) (string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return []byte(j.cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", domain.ErrUnauthorized)
	}
	return claims.Subject, nil
}

var _ domain.TokenIssuer = (*JWTIssuer)(nil)
var _ domain.TokenVerifier = (*JWTIssuer)(nil)
