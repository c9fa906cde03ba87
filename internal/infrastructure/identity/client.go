package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campus-explorer-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Client is one console's view of the identity provider. Listeners registered through
// OnSessionChange are called synchronously, after the client's lock is released, by the
// goroutine whose call caused the change.
type Client struct {
	p *Provider

	mu        sync.Mutex
	session   *domain.ProviderSession
	listeners map[int]func(domain.AuthEvent)
	nextID    int
}

// GetSession returns the current provider session, or nil. A session whose access token
// no longer verifies is dropped.
func (c *Client) GetSession(ctx context.Context) (*domain.ProviderSession, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return nil, nil
	}
	if _, err := c.p.tokens.Verify(sess.AccessToken); err != nil {
		c.mu.Lock()
		if c.session == sess {
			c.session = nil
		}
		c.mu.Unlock()
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

// OnSessionChange registers fn and returns a function that removes it.
func (c *Client) OnSessionChange(fn func(domain.AuthEvent)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.ProviderSession, error) {
	ident, err := c.p.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	sess, err := c.p.issueSession(ident)
	if err != nil {
		return nil, err
	}
	c.setSession(sess, domain.AuthEventSignedIn)
	cp := *sess
	return &cp, nil
}

// SignOut drops the session. No event fires when there was none.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	had := c.session != nil
	c.session = nil
	listeners := c.snapshotListeners()
	c.mu.Unlock()
	if had {
		emit(listeners, domain.AuthEvent{Type: domain.AuthEventSignedOut})
	}
	return nil
}

// SignUp creates an identity. It never starts a session.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.Identity, error) {
	return c.p.signUp(ctx, email, password, metadata)
}

// ResetPasswordForEmail mails a recovery link. Unknown addresses succeed silently.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email string) error {
	ident, err := c.p.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}
	return c.p.sendRecovery(ctx, ident)
}

// VerifyRecovery consumes a recovery link and signs the identity in.
func (c *Client) VerifyRecovery(ctx context.Context, identityID, code string) (*domain.ProviderSession, error) {
	if err := c.p.consumeToken(ctx, identityID, domain.VerificationPasswordReset, code); err != nil {
		return nil, err
	}
	ident, err := c.p.identities.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}
	sess, err := c.p.issueSession(ident)
	if err != nil {
		return nil, err
	}
	c.setSession(sess, domain.AuthEventPasswordRecovery)
	cp := *sess
	return &cp, nil
}

// UpdateUser changes the password of the signed-in identity.
func (c *Client) UpdateUser(ctx context.Context, password string) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return fmt.Errorf("no active session: %w", domain.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.p.opts.BcryptCost)
	if err != nil {
		return err
	}
	if err := c.p.identities.SetPassword(ctx, sess.Identity.ID, string(hash), c.p.now()); err != nil {
		return err
	}

	c.mu.Lock()
	if c.session != sess {
		c.mu.Unlock()
		return nil
	}
	updated := *sess
	updated.Identity.PasswordHash = string(hash)
	c.session = &updated
	listeners := c.snapshotListeners()
	c.mu.Unlock()
	emit(listeners, domain.AuthEvent{Type: domain.AuthEventUserUpdated, Session: &updated})
	return nil
}

// ConfirmEmail consumes a confirmation link.
func (c *Client) ConfirmEmail(ctx context.Context, identityID, code string) error {
	if err := c.p.consumeToken(ctx, identityID, domain.VerificationEmailConfirm, code); err != nil {
		return err
	}
	return c.p.identities.MarkConfirmed(ctx, identityID, c.p.now())
}

// ResendConfirmation re-issues the confirmation link. Unknown or already confirmed
// addresses succeed silently.
func (c *Client) ResendConfirmation(ctx context.Context, email string) error {
	ident, err := c.p.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if ident.EmailConfirmed {
		return nil
	}
	return c.p.sendConfirmation(ctx, ident)
}

func (c *Client) setSession(sess *domain.ProviderSession, event domain.AuthEventType) {
	c.mu.Lock()
	c.session = sess
	listeners := c.snapshotListeners()
	c.mu.Unlock()
	cp := *sess
	emit(listeners, domain.AuthEvent{Type: event, Session: &cp})
}

// snapshotListeners must be called with c.mu held.
func (c *Client) snapshotListeners() []func(domain.AuthEvent) {
	out := make([]func(domain.AuthEvent), 0, len(c.listeners))
	for i := 0; i < c.nextID; i++ {
		if fn, ok := c.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func emit(listeners []func(domain.AuthEvent), ev domain.AuthEvent) {
	for _, fn := range listeners {
		fn(ev)
	}
}
