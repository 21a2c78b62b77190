package usecase

import "wallet-bridge/internal/domain"

// GuardRoute decides the route class from the two authentication facts:
// whether the identity provider reports an authenticated session and
// whether a local session token is present. Pure function, no I/O;
// consumers re-evaluate it on every token-updated signal.
func GuardRoute(providerAuthenticated, hasLocalToken bool) domain.RouteClass {
	switch {
	case hasLocalToken:
		return domain.RouteDashboard
	case providerAuthenticated:
		// Provider session exists but the exchange has not landed a
		// local token yet; render children while verification runs.
		return domain.RoutePassthrough
	default:
		return domain.RouteLanding
	}
}
