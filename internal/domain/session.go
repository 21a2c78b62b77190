package domain

import "time"

// IdentityClaims are the claims extracted from a provider-issued session
// credential after its signature has been verified.
type IdentityClaims struct {
	UserID         string
	OrganizationID string
	ExpiresAt      time.Time
}

// Subject returns the application subject encoding for a delegated session.
func (c IdentityClaims) Subject() string {
	return c.OrganizationID + ":" + c.UserID
}

// VerificationPhase is the state of the verification machine.
type VerificationPhase int

const (
	PhaseIdle VerificationPhase = iota
	PhaseVerifying
	PhaseVerified
)

func (p VerificationPhase) String() string {
	switch p {
	case PhaseVerifying:
		return "verifying"
	case PhaseVerified:
		return "verified"
	default:
		return "idle"
	}
}

// RouteClass is the navigation decision made by the route guard.
type RouteClass int

const (
	// RouteLanding sends the user to the unauthenticated landing screen.
	RouteLanding RouteClass = iota
	// RoutePassthrough renders children while verification runs.
	RoutePassthrough
	// RouteDashboard sends the user to the authenticated dashboard.
	RouteDashboard
)

func (r RouteClass) String() string {
	switch r {
	case RoutePassthrough:
		return "passthrough"
	case RouteDashboard:
		return "dashboard"
	default:
		return "landing"
	}
}
