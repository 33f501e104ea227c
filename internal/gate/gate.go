// Package gate decides whether the persisted client session is still
// usable. It runs once at startup and again whenever the application
// regains focus, and it is the only component allowed to tear a session
// down besides the login success path.
package gate

import (
	"context"
	"sync"
	"time"

	"github.com/taskhive/taskhive/internal/apiclient"
	"github.com/taskhive/taskhive/internal/roles"
	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/pkg/logger"
)

// DefaultMaxAge is the fixed session window measured from login time.
// There is no sliding expiry: continued use does not extend it.
const DefaultMaxAge = 5 * 24 * time.Hour

// User-visible teardown messages. Each is one-shot: shown once and held
// until explicitly dismissed.
const (
	MsgExpired    = "Your session has expired. Please log in again."
	MsgDisabled   = "Your account has been disabled. Contact an administrator."
	MsgAuthFailed = "Authentication failed. Please log in again."
	MsgUnverified = "Your session could not be verified. Please log in again."
)

// StatusChecker performs the remote liveness check with the bearer
// credential. Satisfied by *apiclient.Client.
type StatusChecker interface {
	Status(ctx context.Context, tokenType, accessToken string) (apiclient.AccountStatus, error)
}

// State is the authentication result consumed by the role router.
type State struct {
	Authenticated bool
	Role          roles.Role
}

// Options tune gate behavior.
type Options struct {
	// MaxAge overrides DefaultMaxAge when positive.
	MaxAge time.Duration
	// Strict tears the session down when the liveness check fails for
	// reasons other than 401/inactive. The default (lenient) keeps the
	// prior state and only logs, matching availability-over-strictness.
	Strict bool
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Gate evaluates the persisted session against the expiry window and the
// remote account status. Evaluations may overlap (startup racing a focus
// event); a generation counter makes sure a slower, earlier evaluation
// never overwrites the result of a faster, later one, and that a terminate
// issued mid-flight cannot be undone by a stale response.
type Gate struct {
	store   session.Store
	checker StatusChecker
	maxAge  time.Duration
	strict  bool
	now     func() time.Time

	mu      sync.Mutex
	gen     uint64
	state   State
	message string
}

// New creates a gate over the given store and liveness checker.
func New(store session.Store, checker StatusChecker, opts Options) *Gate {
	g := &Gate{
		store:   store,
		checker: checker,
		maxAge:  opts.MaxAge,
		strict:  opts.Strict,
		now:     opts.Now,
	}
	if g.maxAge <= 0 {
		g.maxAge = DefaultMaxAge
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Evaluate reconstructs the session from the store and decides whether it
// is still usable.
//
//   - no persisted session: unauthenticated, no message, no remote call
//   - window elapsed: session torn down locally, no remote call
//   - liveness INACTIVE: torn down, account-disabled message
//   - liveness rejected with 401: torn down, authentication-failed message
//   - liveness ACTIVE: authenticated with the role from the stored session
//   - any other liveness failure: prior state kept (lenient) or torn down
//     (strict)
func (g *Gate) Evaluate(ctx context.Context) (State, error) {
	g.mu.Lock()
	g.gen++
	myGen := g.gen
	g.mu.Unlock()

	s, err := g.store.Get()
	if err != nil {
		logger.Errorf("gate: reading session store: %v", err)
		return g.State(), err
	}
	if s == nil {
		return g.apply(myGen, State{}, "", false), nil
	}
	if s.Expired(g.now(), g.maxAge) {
		return g.apply(myGen, State{}, MsgExpired, true), nil
	}

	status, err := g.checker.Status(ctx, s.TokenType, s.AccessToken)
	switch {
	case err == nil && status == apiclient.StatusActive:
		return g.apply(myGen, State{Authenticated: true, Role: s.Role}, "", false), nil
	case err == nil && status == apiclient.StatusInactive:
		return g.apply(myGen, State{}, MsgDisabled, true), nil
	case apiclient.IsUnauthorized(err):
		return g.apply(myGen, State{}, MsgAuthFailed, true), nil
	default:
		if g.strict {
			return g.apply(myGen, State{}, MsgUnverified, true), nil
		}
		// Transient failure (network, 5xx): keep whatever state we had.
		// The next focus event is the retry trigger.
		logger.Warnf("gate: liveness check failed, keeping prior state: %v", err)
		return g.State(), nil
	}
}

// apply installs the result of an evaluation unless a newer evaluation or
// terminate has started since; stale results are dropped whole, including
// their store side effects.
func (g *Gate) apply(myGen uint64, st State, message string, clear bool) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if myGen != g.gen {
		return g.state
	}
	if clear {
		if err := g.store.Clear(); err != nil {
			logger.Errorf("gate: clearing session store: %v", err)
		}
	}
	g.state = st
	if message != "" {
		g.message = message
	}
	return g.state
}

// Terminate removes the persisted session and resets the gate to
// unauthenticated with no role. Idempotent: terminating an already
// unauthenticated gate changes nothing observable.
func (g *Gate) Terminate() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.state = State{}
	return g.store.Clear()
}

// State returns the current authentication state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Message returns the pending one-shot user-visible message, or "".
func (g *Gate) Message() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message
}

// Dismiss clears the pending message.
func (g *Gate) Dismiss() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.message = ""
}
