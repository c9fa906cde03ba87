package middleware

import (
	"net/http"

	"github.com/campus-explorer-api/internal/domain"
)

// RequireState returns middleware that allows access only to consoles whose current session
// state is one of the given states. Unauthenticated consoles get 401, others 403.
func RequireState(allowed ...domain.SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			console, ok := ConsoleFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			state := console.Snapshot().State
			for _, s := range allowed {
				if state == s {
					next.ServeHTTP(w, r)
					return
				}
			}
			if state == domain.StateUnauthenticated || state == domain.StateLoading {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}

func RequireRegularAdmin(next http.Handler) http.Handler {
	return RequireState(domain.StateRegularAdmin)(next)
}

func RequireSuperAdmin(next http.Handler) http.Handler {
	return RequireState(domain.StateSuperAdmin)(next)
}

// RequireAdmin admits either kind of admin.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireState(domain.StateRegularAdmin, domain.StateSuperAdmin)(next)
}
