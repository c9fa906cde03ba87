// Package identity is the email/password identity provider backing admin accounts.
// A Provider holds the shared stores; each console talks to it through its own Client,
// which tracks that console's provider session and notifies listeners of changes.
package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/campus-explorer-api/internal/domain"
	jwtinfra "github.com/campus-explorer-api/internal/infrastructure/jwt"
	"github.com/campus-explorer-api/internal/infrastructure/smtp"
	"github.com/campus-explorer-api/internal/pkg/id"
	"github.com/campus-explorer-api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

const (
	confirmTokenTTL  = 24 * time.Hour
	recoveryTokenTTL = time.Hour
	linkTokenLength  = 32
)

// IdentityStore persists identities.
type IdentityStore interface {
	Create(ctx context.Context, identity *domain.Identity) error
	Get(ctx context.Context, identityID string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	SetPassword(ctx context.Context, identityID, hash string, now time.Time) error
	MarkConfirmed(ctx context.Context, identityID string, now time.Time) error
}

// VerificationStore persists confirmation and recovery tokens.
type VerificationStore interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, identityID, verType string) (*domain.Verification, error)
	Delete(ctx context.Context, identityID, verType string) error
}

// TokenIssuer signs and verifies session access tokens.
type TokenIssuer interface {
	Sign(identityID, email, sessionID string, now time.Time) (string, time.Time, error)
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// Options configures a Provider.
type Options struct {
	RequireEmailConfirmation bool
	PublicBaseURL            string
	BcryptCost               int
	Now                      func() time.Time
}

// Provider is the shared identity provider.
type Provider struct {
	identities    IdentityStore
	verifications VerificationStore
	tokens        TokenIssuer
	mailer        smtp.Mailer
	opts          Options
}

func NewProvider(identities IdentityStore, verifications VerificationStore, tokens TokenIssuer, mailer smtp.Mailer, opts Options) *Provider {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Provider{
		identities:    identities,
		verifications: verifications,
		tokens:        tokens,
		mailer:        mailer,
		opts:          opts,
	}
}

// NewClient returns a client with no session.
func (p *Provider) NewClient() *Client {
	return &Client{p: p, listeners: make(map[int]func(domain.AuthEvent))}
}

func (p *Provider) now() time.Time { return p.opts.Now().UTC() }

// authenticate checks credentials. Unknown email and wrong password are indistinguishable.
func (p *Provider) authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	ident, err := p.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if p.opts.RequireEmailConfirmation && !ident.EmailConfirmed {
		return nil, domain.ErrEmailNotConfirmed
	}
	return ident, nil
}

func (p *Provider) issueSession(ident *domain.Identity) (*domain.ProviderSession, error) {
	sessionID := id.New()
	access, expiresAt, err := p.tokens.Sign(ident.ID, ident.Email, sessionID, p.now())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &domain.ProviderSession{
		SessionID:   sessionID,
		AccessToken: access,
		Identity:    *ident,
		ExpiresAt:   expiresAt,
	}, nil
}

func (p *Provider) signUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.Identity, error) {
	if _, err := p.identities.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	now := p.now()
	ident := &domain.Identity{
		ID:             id.New(),
		Email:          email,
		PasswordHash:   string(hash),
		EmailConfirmed: !p.opts.RequireEmailConfirmation,
		Metadata:       metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := p.identities.Create(ctx, ident); err != nil {
		return nil, err
	}
	if p.opts.RequireEmailConfirmation {
		if err := p.sendConfirmation(ctx, ident); err != nil {
			slog.Warn("confirmation email failed", "identity_id", ident.ID, "err", err)
		}
	}
	return ident, nil
}

func (p *Provider) sendConfirmation(ctx context.Context, ident *domain.Identity) error {
	code, err := p.putToken(ctx, ident.ID, domain.VerificationEmailConfirm, confirmTokenTTL)
	if err != nil {
		return err
	}
	link := p.link("/confirm-email", ident.ID, code)
	body := "Confirm your Campus Explorer admin account by opening this link:\n\n" + link + "\n\nThe link expires in 24 hours."
	return p.mailer.SendEmail(ident.Email, "Confirm your email", body)
}

func (p *Provider) sendRecovery(ctx context.Context, ident *domain.Identity) error {
	code, err := p.putToken(ctx, ident.ID, domain.VerificationPasswordReset, recoveryTokenTTL)
	if err != nil {
		return err
	}
	link := p.link("/reset-password", ident.ID, code)
	body := "A password reset was requested for your Campus Explorer admin account.\n\n" + link + "\n\nThe link expires in 1 hour. If you did not request it, ignore this email."
	return p.mailer.SendEmail(ident.Email, "Reset your password", body)
}

func (p *Provider) putToken(ctx context.Context, identityID, verType string, ttl time.Duration) (string, error) {
	code, err := token.NewAlphanumeric(linkTokenLength)
	if err != nil {
		return "", err
	}
	v := &domain.Verification{
		IdentityID: identityID,
		Type:       verType,
		Code:       code,
		ExpiresAt:  p.now().Add(ttl).Unix(),
	}
	if err := p.verifications.Put(ctx, v); err != nil {
		return "", err
	}
	return code, nil
}

// consumeToken checks and deletes a link token. Any mismatch is ErrUnauthorized.
func (p *Provider) consumeToken(ctx context.Context, identityID, verType, code string) error {
	v, err := p.verifications.Get(ctx, identityID, verType)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("link is invalid or has expired: %w", domain.ErrUnauthorized)
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(code)) != 1 {
		return fmt.Errorf("link is invalid or has expired: %w", domain.ErrUnauthorized)
	}
	if v.ExpiresAt < p.now().Unix() {
		return fmt.Errorf("link is invalid or has expired: %w", domain.ErrUnauthorized)
	}
	if err := p.verifications.Delete(ctx, identityID, verType); err != nil {
		slog.Warn("failed to delete verification record", "identity_id", identityID, "type", verType, "err", err)
	}
	return nil
}

func (p *Provider) link(path, identityID, code string) string {
	q := url.Values{}
	q.Set("identity_id", identityID)
	q.Set("token", code)
	return p.opts.PublicBaseURL + path + "?" + q.Encode()
}
