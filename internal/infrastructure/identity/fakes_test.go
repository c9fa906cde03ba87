package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/campus-explorer-api/internal/domain"
	jwtinfra "github.com/campus-explorer-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memIdentities struct {
	mu   sync.Mutex
	byID map[string]domain.Identity
}

func newMemIdentities() *memIdentities {
	return &memIdentities{byID: make(map[string]domain.Identity)}
}

func (m *memIdentities) Create(_ context.Context, ident *domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[ident.ID] = *ident
	return nil
}

func (m *memIdentities) Get(_ context.Context, identityID string) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ident, ok := m.byID[identityID]
	if !ok {
		return nil, fmt.Errorf("identity not found: %w", domain.ErrNotFound)
	}
	return &ident, nil
}

func (m *memIdentities) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ident := range m.byID {
		if ident.Email == email {
			return &ident, nil
		}
	}
	return nil, fmt.Errorf("identity not found: %w", domain.ErrNotFound)
}

func (m *memIdentities) SetPassword(_ context.Context, identityID, hash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ident := m.byID[identityID]
	ident.PasswordHash = hash
	ident.UpdatedAt = now
	m.byID[identityID] = ident
	return nil
}

func (m *memIdentities) MarkConfirmed(_ context.Context, identityID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ident := m.byID[identityID]
	ident.EmailConfirmed = true
	ident.UpdatedAt = now
	m.byID[identityID] = ident
	return nil
}

type memVerifications struct {
	mu    sync.Mutex
	items map[string]domain.Verification
}

func newMemVerifications() *memVerifications {
	return &memVerifications{items: make(map[string]domain.Verification)}
}

func (m *memVerifications) Put(_ context.Context, v *domain.Verification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[v.IdentityID+"/"+v.Type] = *v
	return nil
}

func (m *memVerifications) Get(_ context.Context, identityID, verType string) (*domain.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[identityID+"/"+verType]
	if !ok {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return &v, nil
}

func (m *memVerifications) Delete(_ context.Context, identityID, verType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, identityID+"/"+verType)
	return nil
}

type sentMail struct{ to, subject, body string }

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *captureMailer) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

type fixture struct {
	provider      *Provider
	identities    *memIdentities
	verifications *memVerifications
	mailer        *captureMailer
}

func newFixture(t *testing.T, requireConfirmation bool) *fixture {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = k
	})
	f := &fixture{
		identities:    newMemIdentities(),
		verifications: newMemVerifications(),
		mailer:        &captureMailer{},
	}
	f.provider = NewProvider(f.identities, f.verifications,
		jwtinfra.NewProviderFromKey(testKey, &testKey.PublicKey, time.Hour),
		f.mailer,
		Options{RequireEmailConfirmation: requireConfirmation, PublicBaseURL: "https://admin.test", BcryptCost: bcrypt.MinCost},
	)
	return f
}

func (f *fixture) seed(t *testing.T, email, password string, confirmed bool) domain.Identity {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	ident := domain.Identity{ID: "id-" + email, Email: email, PasswordHash: string(hash), EmailConfirmed: confirmed}
	require.NoError(t, f.identities.Create(context.Background(), &ident))
	return ident
}
