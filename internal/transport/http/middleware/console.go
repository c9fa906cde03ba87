package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/campus-explorer-api/internal/application/session"
	"github.com/campus-explorer-api/internal/domain"
)

type contextKey string

const consoleKey contextKey = "console"

// CookieName carries the console id between the admin portal and the API.
const CookieName = "console_id"

// Console is the session authority of one browser console.
type Console interface {
	Snapshot() session.Snapshot
	Login(ctx context.Context, email, password string) domain.Result
	Register(ctx context.Context, email, password, universityName, city string) domain.Result
	Logout(ctx context.Context) domain.Result
	SendPasswordResetEmail(ctx context.Context, email string) domain.Result
	RecoverPassword(ctx context.Context, identityID, token string) domain.Result
	UpdatePassword(ctx context.Context, password, confirm string) domain.Result
	ConfirmEmail(ctx context.Context, identityID, token string) domain.Result
	ResendConfirmation(ctx context.Context, email string) domain.Result
	RequestKey(ctx context.Context) domain.Result
	RetryKeyDispatch(ctx context.Context) domain.Result
	VerifyKey(ctx context.Context, input string) domain.Result
	ExtendSession(ctx context.Context) domain.Result
}

// ConsoleStore looks up consoles by id and opens new ones.
type ConsoleStore interface {
	Lookup(consoleID string) (Console, bool)
	Open(ctx context.Context) (string, Console, error)
}

// WithConsole resolves the console named by the console cookie, opening a fresh one (and
// setting the cookie) when the cookie is missing or the console was evicted.
func WithConsole(store ConsoleStore, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				if console, ok := store.Lookup(c.Value); ok {
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), consoleKey, console)))
					return
				}
			}
			consoleID, console, err := store.Open(r.Context())
			if err != nil {
				slog.Error("open console failed", "error", err)
				writeJSONError(w, http.StatusServiceUnavailable, "console unavailable")
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    consoleID,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), consoleKey, console)))
		})
	}
}

// ConsoleFromContext returns the console attached by WithConsole.
func ConsoleFromContext(ctx context.Context) (Console, bool) {
	c, ok := ctx.Value(consoleKey).(Console)
	return c, ok
}

// ContextWithConsole attaches a console to ctx.
func ContextWithConsole(ctx context.Context, c Console) context.Context {
	return context.WithValue(ctx, consoleKey, c)
}
