package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"wallet-bridge/internal/domain"
	"wallet-bridge/internal/infrastructure/poll"

	"golang.org/x/sync/singleflight"
)

// VerifyConfig tunes the verification machine.
type VerifyConfig struct {
	// PollTimeout bounds the wallet-list polling loop.
	PollTimeout time.Duration
	// PollInterval is the wallet-list polling step.
	PollInterval time.Duration
	// GraceWindow suppresses visible loading state when re-entering
	// shortly after a successful verification.
	GraceWindow time.Duration
	// LoaderDelay debounces the visible verifying signal so very quick
	// verifications never flash a loader.
	LoaderDelay time.Duration
	// WalletName is the display name requested at wallet creation.
	WalletName string
}

// DefaultVerifyConfig returns the production tuning.
func DefaultVerifyConfig() VerifyConfig {
	return VerifyConfig{
		PollTimeout:  2 * time.Second,
		PollInterval: 200 * time.Millisecond,
		GraceWindow:  15 * time.Second,
		LoaderDelay:  250 * time.Millisecond,
		WalletName:   "Primary",
	}
}

// PhaseListener observes phase transitions for UI consumption.
type PhaseListener func(domain.VerificationPhase)

// VerifySession reconciles the local session token with the backend user
// record and the provider's wallet state. It runs at most one flight per
// distinct token, short-circuits tokens it already verified, and resolves
// every internal failure to a state transition.
type VerifySession struct {
	session domain.SessionState
	backend domain.BackendClient
	wallets domain.WalletProvider
	logger  *slog.Logger
	cfg     VerifyConfig

	group singleflight.Group

	mu        sync.Mutex
	phase     domain.VerificationPhase
	lastToken string
	lastAt    time.Time
	listener  PhaseListener
	loader    *time.Timer
}

// NewVerifySession creates a new verification machine.
func NewVerifySession(session domain.SessionState, backend domain.BackendClient, wallets domain.WalletProvider, cfg VerifyConfig, logger *slog.Logger) *VerifySession {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 2 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 200 * time.Millisecond
	}
	return &VerifySession{
		session: session,
		backend: backend,
		wallets: wallets,
		logger:  logger.With("component", "verify_session"),
		cfg:     cfg,
	}
}

// SetPhaseListener registers the phase observer. Call before triggering.
func (v *VerifySession) SetPhaseListener(listener PhaseListener) {
	v.mu.Lock()
	v.listener = listener
	v.mu.Unlock()
}

// Phase returns the machine's current phase.
func (v *VerifySession) Phase() domain.VerificationPhase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

// IsVerified reports whether the current token has been verified.
func (v *VerifySession) IsVerified() bool {
	return v.Phase() == domain.PhaseVerified
}

// Execute fires a verification attempt. It is a no-op unless the identity
// provider reports an authenticated session and a local token is present.
// Concurrent triggers for the same token share a single flight.
func (v *VerifySession) Execute(ctx context.Context, providerAuthenticated bool) error {
	if !providerAuthenticated {
		return nil
	}

	token, found := v.session.Token()
	if !found {
		// Cold start or a session cleared since the last flight. Settle
		// back to idle so a logged-out session is never reported verified.
		v.mu.Lock()
		v.lastToken = ""
		v.lastAt = time.Time{}
		v.mu.Unlock()
		v.transition(domain.PhaseIdle)
		return nil
	}

	v.mu.Lock()
	if token == v.lastToken {
		// Idempotent re-entry: this exact token already verified.
		v.phase = domain.PhaseVerified
		listener := v.listener
		v.mu.Unlock()
		if listener != nil {
			listener(domain.PhaseVerified)
		}
		return nil
	}
	quiet := !v.lastAt.IsZero() && time.Since(v.lastAt) < v.cfg.GraceWindow
	v.mu.Unlock()

	_, err, _ := v.group.Do(token, func() (any, error) {
		return nil, v.run(ctx, token, quiet)
	})
	return err
}

// run performs one verification flight for token.
func (v *VerifySession) run(ctx context.Context, token string, quiet bool) error {
	// The token may have changed between trigger and flight start.
	if current, found := v.session.Token(); !found || current != token {
		v.transition(domain.PhaseIdle)
		return nil
	}

	v.startVerifying(quiet)

	profile, err := v.backend.FetchMe(ctx, token)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProfileNotFound):
		profile = nil
	default:
		return v.fail(ctx, token, err)
	}

	// Only create a wallet when the backend has never seen an address
	// for this subject; an existing address means a wallet exists and a
	// second one would be a distinct identity.
	walletID, createErr := v.ensureWallet(ctx, !profile.HasAddress())

	if profile == nil {
		if walletID == "" {
			if errors.Is(createErr, domain.ErrWalletCreation) {
				// Provider-tagged creation failure is non-fatal: the
				// user proceeds as verified without a backend profile.
				v.logger.Warn("wallet creation failed, continuing without backend profile", "error", createErr)
				v.succeed(token, nil)
				return nil
			}
			return v.fail(ctx, token, domain.ErrRegistrationBlocked)
		}
		if _, err := v.backend.RegisterWallet(ctx, token, walletID); err != nil {
			return v.fail(ctx, token, err)
		}
		// Re-fetch for canonical post-registration state.
		profile, err = v.backend.FetchMe(ctx, token)
		if err != nil {
			return v.fail(ctx, token, err)
		}
	}

	v.succeed(token, profile)
	return nil
}

// ensureWallet polls for a provider wallet, optionally creating one. The
// returned error is the provider's creation failure, if any; resolution
// failure itself is reported by the empty id.
func (v *VerifySession) ensureWallet(ctx context.Context, allowCreate bool) (string, error) {
	find := func(ctx context.Context) (string, bool) {
		wallets, err := v.wallets.ListWallets(ctx)
		if err != nil || len(wallets) == 0 {
			return "", false
		}
		return wallets[0].ID, true
	}

	if id, ok := poll.WaitFor(ctx, v.cfg.PollTimeout, v.cfg.PollInterval, find); ok {
		return id, nil
	}
	if !allowCreate {
		return "", nil
	}

	createErr := v.wallets.CreateWallet(ctx, v.cfg.WalletName, domain.SupportedChains)
	if createErr != nil {
		v.logger.Warn("wallet creation request failed", "error", createErr)
	}

	id, _ := poll.WaitFor(ctx, v.cfg.PollTimeout, v.cfg.PollInterval, find)
	return id, createErr
}

// succeed persists the flight's result unless the token changed while the
// flight ran, which would resurrect a logged-out session.
func (v *VerifySession) succeed(token string, profile *domain.UserProfile) {
	if current, found := v.session.Token(); !found || current != token {
		v.logger.Info("token changed during verification, discarding result")
		v.transition(domain.PhaseIdle)
		return
	}

	now := time.Now()
	v.session.Persist(token, profile, now)

	v.mu.Lock()
	v.lastToken = token
	v.lastAt = now
	v.mu.Unlock()

	v.transition(domain.PhaseVerified)
	v.logger.Info("verification complete", "has_profile", profile != nil)
}

// fail resolves a fatal flight: clear local session state, signal once,
// return to idle.
func (v *VerifySession) fail(ctx context.Context, token string, err error) error {
	v.logger.ErrorContext(ctx, "verification failed", "error", err)

	v.session.Invalidate()

	v.mu.Lock()
	v.lastToken = ""
	v.lastAt = time.Time{}
	v.mu.Unlock()

	v.transition(domain.PhaseIdle)
	return err
}

// startVerifying enters the verifying phase. The visible signal is
// debounced and suppressed entirely inside the grace window.
func (v *VerifySession) startVerifying(quiet bool) {
	v.mu.Lock()
	v.phase = domain.PhaseVerifying
	listener := v.listener
	if v.loader != nil {
		v.loader.Stop()
		v.loader = nil
	}
	notifyNow := false
	if listener != nil && !quiet {
		if v.cfg.LoaderDelay > 0 {
			v.loader = time.AfterFunc(v.cfg.LoaderDelay, func() {
				v.mu.Lock()
				stillVerifying := v.phase == domain.PhaseVerifying
				v.mu.Unlock()
				if stillVerifying {
					listener(domain.PhaseVerifying)
				}
			})
		} else {
			notifyNow = true
		}
	}
	v.mu.Unlock()

	// Listener runs outside the lock so it may call back into the machine.
	if notifyNow {
		listener(domain.PhaseVerifying)
	}
}

// transition settles the machine into a terminal phase for this flight.
func (v *VerifySession) transition(phase domain.VerificationPhase) {
	v.mu.Lock()
	v.phase = phase
	if v.loader != nil {
		v.loader.Stop()
		v.loader = nil
	}
	listener := v.listener
	v.mu.Unlock()

	if listener != nil {
		listener(phase)
	}
}
