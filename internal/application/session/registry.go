package session

import (
	"context"
	"sync"
	"time"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/pkg/token"
)

type console struct {
	authority *Authority
	lastSeen  time.Time
	state     domain.SessionState
}

// Registry holds one Authority per console and evicts consoles that stay idle.
type Registry struct {
	deps      ServiceDeps
	newClient func() IdentityClient
	idle      time.Duration
	now       func() time.Time

	mu       sync.Mutex
	consoles map[string]*console
	closed   bool
	stop     chan struct{}
	done     chan struct{}
}

// NewRegistry builds a registry. deps.Identity is ignored; every console gets its own client
// from newClient. Eviction runs every sweep until Close.
func NewRegistry(deps ServiceDeps, newClient func() IdentityClient, idle, sweep time.Duration) *Registry {
	deps.applyDefaults()
	r := &Registry{
		deps:      deps,
		newClient: newClient,
		idle:      idle,
		now:       deps.Config.Now,
		consoles:  make(map[string]*console),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go r.cleanup(sweep)
	return r
}

// Create starts a new console and returns its id.
func (r *Registry) Create(ctx context.Context) (string, *Authority, error) {
	consoleID, err := token.NewOpaque()
	if err != nil {
		return "", nil, err
	}
	deps := r.deps
	deps.Identity = r.newClient()
	auth := NewAuthority(deps)
	auth.Subscribe(func(snap Snapshot) { r.observe(consoleID, snap.State) })

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		auth.Close()
		return "", nil, context.Canceled
	}
	r.consoles[consoleID] = &console{authority: auth, lastSeen: r.now(), state: domain.StateLoading}
	n := len(r.consoles)
	r.mu.Unlock()

	r.deps.Metrics.SetActiveConsoles(n)
	auth.Start(ctx)
	return consoleID, auth, nil
}

// observe records a console's published state. Consoles already dropped are ignored.
func (r *Registry) observe(consoleID string, state domain.SessionState) {
	r.mu.Lock()
	c, ok := r.consoles[consoleID]
	if !ok || c.state == state {
		r.mu.Unlock()
		return
	}
	c.state = state
	n := r.superAdminsLocked()
	r.mu.Unlock()

	r.deps.Metrics.SetSuperAdminSessions(n)
}

// SuperAdmins returns how many consoles currently hold a super admin session.
func (r *Registry) SuperAdmins() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.superAdminsLocked()
}

func (r *Registry) superAdminsLocked() int {
	n := 0
	for _, c := range r.consoles {
		if c.state == domain.StateSuperAdmin {
			n++
		}
	}
	return n
}

// Get returns the console's authority and marks it as used.
func (r *Registry) Get(consoleID string) (*Authority, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consoles[consoleID]
	if !ok {
		return nil, false
	}
	c.lastSeen = r.now()
	return c.authority, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.consoles)
}

// Evict closes and drops consoles idle for longer than the idle timeout.
func (r *Registry) Evict() int {
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	var stale []*Authority
	for consoleID, c := range r.consoles {
		if c.lastSeen.Before(cutoff) {
			stale = append(stale, c.authority)
			delete(r.consoles, consoleID)
		}
	}
	n, supers := len(r.consoles), r.superAdminsLocked()
	r.mu.Unlock()

	for _, auth := range stale {
		auth.Close()
	}
	if len(stale) > 0 {
		r.deps.Metrics.SetActiveConsoles(n)
		r.deps.Metrics.SetSuperAdminSessions(supers)
	}
	return len(stale)
}

func (r *Registry) cleanup(sweep time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(sweep)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.Evict()
		}
	}
}

// Close stops eviction and closes every console.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	all := r.consoles
	r.consoles = make(map[string]*console)
	r.mu.Unlock()

	close(r.stop)
	<-r.done
	for _, c := range all {
		c.authority.Close()
	}
	r.deps.Metrics.SetActiveConsoles(0)
	r.deps.Metrics.SetSuperAdminSessions(0)
}
