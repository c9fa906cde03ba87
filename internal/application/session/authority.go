// Package session owns the per-console Session Authority: it derives the admin session from
// identity-provider state and the admin directory, runs the keyless super-admin flow and
// enforces its expiry.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/metrics"
	"golang.org/x/time/rate"
)

// Snapshot is the published view of an Authority.
type Snapshot struct {
	State            domain.SessionState `json:"state"`
	Session          domain.Session      `json:"session,omitempty"`
	RemainingSeconds int64               `json:"remaining_seconds,omitempty"`
	Critical         bool                `json:"critical,omitempty"`
}

// Regular returns the regular-admin session, if that is the current one.
func (s Snapshot) Regular() (domain.RegularAdminSession, bool) {
	r, ok := s.Session.(domain.RegularAdminSession)
	return r, ok
}

// Super returns the super-admin session, if that is the current one.
func (s Snapshot) Super() (domain.SuperAdminSession, bool) {
	r, ok := s.Session.(domain.SuperAdminSession)
	return r, ok
}

// Authority is the session state machine of one console.
//
// Every transition takes a new generation under mu. A derivation records its generation when
// it starts and only writes if no other transition began since, so the most recently started
// transition wins. No I/O happens while mu is held.
type Authority struct {
	identity     IdentityClient
	directory    AdminDirectory
	universities UniversityStore
	keys         KeyStore
	dispatcher   KeyDispatcher
	metrics      metrics.Recorder
	verifyLimit  *rate.Limiter
	cfg          Config

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       domain.SessionState
	session     domain.Session
	gen         uint64
	closed      bool
	unsubscribe func()
	expiryStop  chan struct{}
	pendingKey  *domain.OneTimeKey
	subscribers map[int]func(Snapshot)
	nextSub     int
}

func NewAuthority(deps ServiceDeps) *Authority {
	deps.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Authority{
		identity:     deps.Identity,
		directory:    deps.Directory,
		universities: deps.Universities,
		keys:         deps.Keys,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		verifyLimit:  deps.VerifyLimiter,
		cfg:          deps.Config,
		ctx:          ctx,
		cancel:       cancel,
		state:        domain.StateLoading,
		subscribers:  make(map[int]func(Snapshot)),
	}
}

// Start subscribes to provider events and runs the initial derivation. The state leaves
// Loading before Start returns.
func (a *Authority) Start(ctx context.Context) {
	unsubscribe := a.identity.OnSessionChange(a.onAuthEvent)
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		unsubscribe()
		return
	}
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	sess, err := a.identity.GetSession(ctx)
	if err != nil {
		slog.Warn("initial provider session lookup failed", "err", err)
		sess = nil
	}
	a.derive(ctx, sess)
}

// Close stops the expiry ticker, detaches from the provider and rejects further writes.
func (a *Authority) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.stopExpiryLocked()
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.subscribers = map[int]func(Snapshot){}
	a.mu.Unlock()

	a.cancel()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Snapshot returns the current state. An elapsed time-boxed session is cleared first.
func (a *Authority) Snapshot() Snapshot {
	a.mu.Lock()
	if a.expireLocked(a.now()) {
		snap, subs := a.snapshotLocked(), a.subscribersLocked()
		a.mu.Unlock()
		a.onExpired(snap, subs)
		return snap
	}
	snap := a.snapshotLocked()
	a.mu.Unlock()
	return snap
}

// Subscribe registers fn to receive every published snapshot and returns a function that
// removes it. fn is called without the authority's lock held.
func (a *Authority) Subscribe(fn func(Snapshot)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextSub
	a.nextSub++
	a.subscribers[id] = fn
	return func() {
		a.mu.Lock()
		delete(a.subscribers, id)
		a.mu.Unlock()
	}
}

func (a *Authority) onAuthEvent(ev domain.AuthEvent) {
	a.derive(a.ctx, ev.Session)
}

// derive recomputes the session from a provider session.
func (a *Authority) derive(ctx context.Context, provider *domain.ProviderSession) {
	gen, ok := a.begin()
	if !ok {
		return
	}
	if provider == nil {
		a.commit(gen, domain.StateUnauthenticated, nil)
		return
	}

	rec, err := a.directory.GetAdminByID(ctx, provider.Identity.ID)
	if err != nil {
		slog.Warn("admin lookup failed, signing out", "identity_id", provider.Identity.ID, "err", err)
		if err := a.identity.SignOut(ctx); err != nil {
			slog.Warn("provider sign-out failed", "identity_id", provider.Identity.ID, "err", err)
		}
		a.commit(gen, domain.StateUnauthenticated, nil)
		return
	}

	switch r := rec.(type) {
	case domain.SuperAdminRecord:
		a.commit(gen, domain.StateSuperAdmin, domain.SuperAdminSession{
			AdminID:   r.ID,
			Email:     provider.Identity.Email,
			LoginTime: a.now(),
		})
	case domain.UniversityAdminRecord:
		a.commit(gen, domain.StateRegularAdmin, domain.RegularAdminSession{
			UserID:       r.ID,
			Email:        r.Email,
			UniversityID: r.UniversityID,
			University:   r.University,
		})
	default:
		slog.Error("unknown admin record type", "identity_id", provider.Identity.ID)
		a.commit(gen, domain.StateUnauthenticated, nil)
	}
}

// begin opens a new generation for a derivation.
func (a *Authority) begin() (uint64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return 0, false
	}
	a.gen++
	return a.gen, true
}

// commit writes a derivation result if its generation is still current.
func (a *Authority) commit(gen uint64, state domain.SessionState, sess domain.Session) bool {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		slog.Debug("discarding stale derivation", "generation", gen)
		return false
	}
	a.setLocked(state, sess)
	snap, subs := a.snapshotLocked(), a.subscribersLocked()
	a.mu.Unlock()

	a.metrics.RecordDerivation(string(state))
	publish(subs, snap)
	return true
}

// write applies a direct transition (key verification, extension, logout) as a new generation.
func (a *Authority) write(state domain.SessionState, sess domain.Session) bool {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return false
	}
	a.gen++
	a.setLocked(state, sess)
	snap, subs := a.snapshotLocked(), a.subscribersLocked()
	a.mu.Unlock()

	publish(subs, snap)
	return true
}

// setLocked installs a session and (re)arms the expiry ticker. Caller holds mu.
func (a *Authority) setLocked(state domain.SessionState, sess domain.Session) {
	a.stopExpiryLocked()
	a.state = state
	a.session = sess
	if s, ok := sess.(domain.SuperAdminSession); ok && s.TimeBoxed() {
		stop := make(chan struct{})
		a.expiryStop = stop
		go a.runExpiry(stop)
	}
}

func (a *Authority) stopExpiryLocked() {
	if a.expiryStop != nil {
		close(a.expiryStop)
		a.expiryStop = nil
	}
}

func (a *Authority) runExpiry(stop chan struct{}) {
	ticker := time.NewTicker(a.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.mu.Lock()
			if a.expiryStop != stop {
				a.mu.Unlock()
				return
			}
			if !a.expireLocked(a.now()) {
				a.mu.Unlock()
				continue
			}
			snap, subs := a.snapshotLocked(), a.subscribersLocked()
			a.mu.Unlock()
			a.onExpired(snap, subs)
			return
		}
	}
}

// expireLocked clears a time-boxed super-admin session whose deadline has passed.
func (a *Authority) expireLocked(now time.Time) bool {
	s, ok := a.session.(domain.SuperAdminSession)
	if a.closed || !ok || !s.Expired(now) {
		return false
	}
	a.gen++
	a.setLocked(domain.StateUnauthenticated, nil)
	return true
}

func (a *Authority) onExpired(snap Snapshot, subs []func(Snapshot)) {
	slog.Info("super admin session expired")
	a.metrics.RecordExpiration()
	publish(subs, snap)
}

func (a *Authority) snapshotLocked() Snapshot {
	snap := Snapshot{State: a.state, Session: a.session}
	if s, ok := a.session.(domain.SuperAdminSession); ok && s.TimeBoxed() {
		remaining := s.ExpiresAt.Sub(a.now())
		if remaining < 0 {
			remaining = 0
		}
		snap.RemainingSeconds = int64(remaining / time.Second)
		snap.Critical = remaining <= criticalWindow
	}
	return snap
}

func (a *Authority) subscribersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(a.subscribers))
	for i := 0; i < a.nextSub; i++ {
		if fn, ok := a.subscribers[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (a *Authority) now() time.Time { return a.cfg.Now() }

func publish(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
