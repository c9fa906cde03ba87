package session

import (
	"context"
	"time"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/metrics"
	"golang.org/x/time/rate"
)

// IdentityClient is one console's handle on the identity provider.
type IdentityClient interface {
	GetSession(ctx context.Context) (*domain.ProviderSession, error)
	OnSessionChange(fn func(domain.AuthEvent)) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, password string) (*domain.ProviderSession, error)
	SignOut(ctx context.Context) error
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.Identity, error)
	ResetPasswordForEmail(ctx context.Context, email string) error
	UpdateUser(ctx context.Context, password string) error
	VerifyRecovery(ctx context.Context, identityID, token string) (*domain.ProviderSession, error)
	ConfirmEmail(ctx context.Context, identityID, token string) error
	ResendConfirmation(ctx context.Context, email string) error
}

// AdminDirectory resolves identities to admin records.
type AdminDirectory interface {
	GetAdminByID(ctx context.Context, adminID string) (domain.AdminRecord, error)
	GetSuperAdminRecord(ctx context.Context) (domain.SuperAdminRecord, error)
	CreateAdmin(ctx context.Context, row *domain.AdminRow) error
}

type UniversityStore interface {
	Put(ctx context.Context, u *domain.University) error
	Delete(ctx context.Context, universityID string) error
}

// KeyStore persists one-time super-admin keys.
type KeyStore interface {
	Insert(ctx context.Context, key *domain.OneTimeKey) error
	Get(ctx context.Context, keyID string) (*domain.OneTimeKey, error)
	FindValid(ctx context.Context, secret string) (*domain.OneTimeKey, error)
	MarkUsed(ctx context.Context, keyID string, at time.Time) error
}

type KeyDispatcher interface {
	SendSecretKey(ctx context.Context, to, key string) error
}

// Config holds the authority's tunables. Zero values fall back to the defaults below.
type Config struct {
	OperatorEmail string
	KeyTTL        time.Duration
	SessionTTL    time.Duration
	TickInterval  time.Duration
	Now           func() time.Time
}

const (
	defaultKeyTTL       = 10 * time.Minute
	defaultSessionTTL   = 10 * time.Minute
	defaultTickInterval = time.Second

	// Key verification attempts across all consoles: a burst of 10, then one every 6 seconds.
	verifyBurst    = 10
	verifyInterval = 6 * time.Second

	// criticalWindow marks the last stretch of a time-boxed session.
	criticalWindow = 2 * time.Minute
)

// ServiceDeps groups the collaborators of an Authority.
type ServiceDeps struct {
	Identity     IdentityClient
	Directory    AdminDirectory
	Universities UniversityStore
	Keys         KeyStore
	Dispatcher   KeyDispatcher
	Metrics      metrics.Recorder
	Config       Config

	// VerifyLimiter caps key verification attempts. Authorities built from the same deps
	// share it, so rotating consoles does not reset the budget.
	VerifyLimiter *rate.Limiter
}

func (d *ServiceDeps) applyDefaults() {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Config.KeyTTL <= 0 {
		d.Config.KeyTTL = defaultKeyTTL
	}
	if d.Config.SessionTTL <= 0 {
		d.Config.SessionTTL = defaultSessionTTL
	}
	if d.Config.TickInterval <= 0 {
		d.Config.TickInterval = defaultTickInterval
	}
	if d.Config.Now == nil {
		d.Config.Now = time.Now
	}
	if d.VerifyLimiter == nil {
		d.VerifyLimiter = rate.NewLimiter(rate.Every(verifyInterval), verifyBurst)
	}
}
