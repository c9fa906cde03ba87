package domain

import "time"

// SessionState is the coarse authentication state of one console.
type SessionState string

const (
	StateLoading         SessionState = "loading"
	StateUnauthenticated SessionState = "unauthenticated"
	StateRegularAdmin    SessionState = "regular_admin"
	StateSuperAdmin      SessionState = "super_admin"
)

// Session is the derived, in-memory admin session: RegularAdminSession or SuperAdminSession.
type Session interface {
	State() SessionState
	AccountID() string
	AccountEmail() string
	IsSuperAdmin() bool
	isSession()
}

// RegularAdminSession is bound to an identity-provider session and one university.
type RegularAdminSession struct {
	UserID       string     `json:"user_id"`
	Email        string     `json:"email"`
	UniversityID string     `json:"university_id"`
	University   University `json:"university"`
}

func (s RegularAdminSession) State() SessionState  { return StateRegularAdmin }
func (s RegularAdminSession) AccountID() string    { return s.UserID }
func (s RegularAdminSession) AccountEmail() string { return s.Email }
func (RegularAdminSession) IsSuperAdmin() bool     { return false }
func (RegularAdminSession) isSession()             {}

// SuperAdminSession has no university. Keyless sessions come from a one-time key and are
// bounded by ExpiresAt; provider-backed ones carry a zero ExpiresAt until extended.
type SuperAdminSession struct {
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	LoginTime time.Time `json:"login_time"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Keyless   bool      `json:"keyless"`
}

func (s SuperAdminSession) State() SessionState  { return StateSuperAdmin }
func (s SuperAdminSession) AccountID() string    { return s.AdminID }
func (s SuperAdminSession) AccountEmail() string { return s.Email }
func (SuperAdminSession) IsSuperAdmin() bool     { return true }
func (SuperAdminSession) isSession()             {}

// TimeBoxed reports whether the session is subject to wall-clock expiry.
func (s SuperAdminSession) TimeBoxed() bool { return !s.ExpiresAt.IsZero() }

// Expired reports whether a time-boxed session has passed its deadline at now.
func (s SuperAdminSession) Expired(now time.Time) bool {
	return s.TimeBoxed() && now.After(s.ExpiresAt)
}
