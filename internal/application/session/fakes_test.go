package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- identity provider fake ---

// fakeIdentity delivers events synchronously, like the real client.
type fakeIdentity struct {
	mu        sync.Mutex
	session   *domain.ProviderSession
	listeners map[int]func(domain.AuthEvent)
	nextID    int

	accounts     map[string]fakeAccount
	signOutCalls int
	signUpErr    error
	signUpIdent  *domain.Identity
	resetErr     error
	updateErr    error
	recoveryErr  error
	confirmErr   error
	resendErr    error
}

type fakeAccount struct {
	password  string
	identity  domain.Identity
	confirmed bool
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{listeners: map[int]func(domain.AuthEvent){}, accounts: map[string]fakeAccount{}}
}

func (f *fakeIdentity) addAccount(identityID, email, password string, confirmed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = fakeAccount{
		password:  password,
		identity:  domain.Identity{ID: identityID, Email: email, EmailConfirmed: confirmed},
		confirmed: confirmed,
	}
}

// signedIn sets a provider session without emitting, as if restored from a previous visit.
func (f *fakeIdentity) signedIn(identityID, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = &domain.ProviderSession{SessionID: "s-" + identityID, Identity: domain.Identity{ID: identityID, Email: email}}
}

func (f *fakeIdentity) GetSession(context.Context) (*domain.ProviderSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil, nil
	}
	cp := *f.session
	return &cp, nil
}

func (f *fakeIdentity) OnSessionChange(fn func(domain.AuthEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *fakeIdentity) listenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*domain.ProviderSession, error) {
	f.mu.Lock()
	acct, ok := f.accounts[email]
	if !ok || acct.password != password {
		f.mu.Unlock()
		return nil, domain.ErrInvalidCredentials
	}
	if !acct.confirmed {
		f.mu.Unlock()
		return nil, domain.ErrEmailNotConfirmed
	}
	sess := &domain.ProviderSession{SessionID: "s-" + acct.identity.ID, Identity: acct.identity}
	f.session = sess
	f.mu.Unlock()

	f.emit(domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: sess})
	return sess, nil
}

// emitSignedIn fires a sign-in event for identityID from outside any operation.
func (f *fakeIdentity) emitSignedIn(identityID, email string) {
	f.mu.Lock()
	sess := &domain.ProviderSession{SessionID: "s-" + identityID, Identity: domain.Identity{ID: identityID, Email: email}}
	f.session = sess
	f.mu.Unlock()
	f.emit(domain.AuthEvent{Type: domain.AuthEventSignedIn, Session: sess})
}

func (f *fakeIdentity) SignOut(context.Context) error {
	f.mu.Lock()
	f.signOutCalls++
	had := f.session != nil
	f.session = nil
	f.mu.Unlock()
	if had {
		f.emit(domain.AuthEvent{Type: domain.AuthEventSignedOut})
	}
	return nil
}

func (f *fakeIdentity) signOuts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signOutCalls
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string, _ map[string]string) (*domain.Identity, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	ident := f.signUpIdent
	if ident == nil {
		ident = &domain.Identity{ID: "new-" + email, Email: email}
	}
	f.mu.Lock()
	f.accounts[email] = fakeAccount{password: password, identity: *ident, confirmed: ident.EmailConfirmed}
	f.mu.Unlock()
	return ident, nil
}

func (f *fakeIdentity) ResetPasswordForEmail(context.Context, string) error { return f.resetErr }

func (f *fakeIdentity) UpdateUser(context.Context, string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return domain.ErrUnauthorized
	}
	return nil
}

func (f *fakeIdentity) VerifyRecovery(_ context.Context, identityID, _ string) (*domain.ProviderSession, error) {
	if f.recoveryErr != nil {
		return nil, f.recoveryErr
	}
	f.mu.Lock()
	sess := &domain.ProviderSession{SessionID: "r-" + identityID, Identity: domain.Identity{ID: identityID}}
	f.session = sess
	f.mu.Unlock()
	f.emit(domain.AuthEvent{Type: domain.AuthEventPasswordRecovery, Session: sess})
	return sess, nil
}

func (f *fakeIdentity) ConfirmEmail(context.Context, string, string) error { return f.confirmErr }

func (f *fakeIdentity) ResendConfirmation(context.Context, string) error { return f.resendErr }

func (f *fakeIdentity) emit(ev domain.AuthEvent) {
	f.mu.Lock()
	var fns []func(domain.AuthEvent)
	for i := 0; i < f.nextID; i++ {
		if fn, ok := f.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// --- mocks ---

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) GetAdminByID(ctx context.Context, adminID string) (domain.AdminRecord, error) {
	args := m.Called(ctx, adminID)
	if r, _ := args.Get(0).(domain.AdminRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDirectory) GetSuperAdminRecord(ctx context.Context) (domain.SuperAdminRecord, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(domain.SuperAdminRecord)
	return r, args.Error(1)
}
func (m *mockDirectory) CreateAdmin(ctx context.Context, row *domain.AdminRow) error {
	return m.Called(ctx, row).Error(0)
}

type mockUniversities struct{ mock.Mock }

func (m *mockUniversities) Put(ctx context.Context, u *domain.University) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUniversities) Delete(ctx context.Context, universityID string) error {
	return m.Called(ctx, universityID).Error(0)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) SendSecretKey(ctx context.Context, to, key string) error {
	return m.Called(ctx, to, key).Error(0)
}

// memKeys mimics the key table: FindValid only returns unused rows and MarkUsed is conditional.
type memKeys struct {
	mu      sync.Mutex
	keys    map[string]*domain.OneTimeKey
	findErr error
	markErr error
}

func newMemKeys() *memKeys { return &memKeys{keys: map[string]*domain.OneTimeKey{}} }

func (m *memKeys) Insert(_ context.Context, key *domain.OneTimeKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *key
	m.keys[key.ID] = &cp
	return nil
}

func (m *memKeys) Get(_ context.Context, keyID string) (*domain.OneTimeKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[keyID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *k
	return &cp, nil
}

func (m *memKeys) FindValid(_ context.Context, secret string) (*domain.OneTimeKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, k := range m.keys {
		if k.SecretKey == secret && !k.Used {
			cp := *k
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memKeys) MarkUsed(_ context.Context, keyID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	k, ok := m.keys[keyID]
	if !ok || k.Used {
		return domain.ErrConflict
	}
	k.Used = true
	k.UsedAt = &at
	return nil
}

func (m *memKeys) only(t *testing.T) domain.OneTimeKey {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.keys) != 1 {
		t.Fatalf("expected exactly one key, got %d", len(m.keys))
	}
	for _, k := range m.keys {
		return *k
	}
	return domain.OneTimeKey{}
}

// --- clock ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// --- helpers ---

const operatorEmail = "ops@campus.test"

type harness struct {
	identity     *fakeIdentity
	directory    *mockDirectory
	universities *mockUniversities
	keys         *memKeys
	dispatcher   *mockDispatcher
	clock        *fakeClock
}

func newHarness() *harness {
	return &harness{
		identity:     newFakeIdentity(),
		directory:    &mockDirectory{},
		universities: &mockUniversities{},
		keys:         newMemKeys(),
		dispatcher:   &mockDispatcher{},
		clock:        newFakeClock(),
	}
}

func (h *harness) deps() ServiceDeps {
	return ServiceDeps{
		Identity:     h.identity,
		Directory:    h.directory,
		Universities: h.universities,
		Keys:         h.keys,
		Dispatcher:   h.dispatcher,
		Config: Config{
			OperatorEmail: operatorEmail,
			TickInterval:  5 * time.Millisecond,
			Now:           h.clock.Now,
		},
	}
}

// started returns a running authority that is closed when the test ends.
func (h *harness) started(t *testing.T) *Authority {
	t.Helper()
	a := NewAuthority(h.deps())
	a.Start(context.Background())
	t.Cleanup(a.Close)
	return a
}

func testUniversity() domain.University {
	return domain.University{ID: "uni-1", Name: "State University", City: "Springfield"}
}

func regularRecord() domain.UniversityAdminRecord {
	return domain.UniversityAdminRecord{ID: "admin-1", Email: "dean@state.edu", UniversityID: "uni-1", University: testUniversity()}
}

func superRecord() domain.SuperAdminRecord {
	return domain.SuperAdminRecord{ID: "super-1", Email: operatorEmail}
}
