package domain

import "time"

// Identity is an email/password account owned by the identity provider.
type Identity struct {
	ID             string            `json:"id" dynamodbav:"identity_id"`
	Email          string            `json:"email" dynamodbav:"email"`
	PasswordHash   string            `json:"-" dynamodbav:"password_hash"`
	EmailConfirmed bool              `json:"email_confirmed" dynamodbav:"email_confirmed"`
	Metadata       map[string]string `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time         `json:"updated" dynamodbav:"updated_at"`
}

// ProviderSession is an active identity-provider session for one client.
type ProviderSession struct {
	SessionID   string    `json:"session_id"`
	AccessToken string    `json:"-"`
	Identity    Identity  `json:"identity"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthEventType enumerates identity-provider session events.
type AuthEventType string

const (
	AuthEventSignedIn         AuthEventType = "SIGNED_IN"
	AuthEventSignedOut        AuthEventType = "SIGNED_OUT"
	AuthEventPasswordRecovery AuthEventType = "PASSWORD_RECOVERY"
	AuthEventUserUpdated      AuthEventType = "USER_UPDATED"
)

// AuthEvent is delivered to OnSessionChange listeners. Session is nil after sign-out.
type AuthEvent struct {
	Type    AuthEventType
	Session *ProviderSession
}
