package http

import (
	"net/http"

	"github.com/campus-explorer-api/internal/config"
	"github.com/campus-explorer-api/internal/metrics"
	"github.com/campus-explorer-api/internal/transport/http/handler"
	appmiddleware "github.com/campus-explorer-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. The returned stop func ends the
// rate limiter's background cleanup.
func NewRouter(cfg *config.Config, deps *Deps) (http.Handler, func()) {
	rec := deps.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}

	r := chi.NewRouter()
	if cfg.TrustedProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.Metrics(rec))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, applied to login, registration, key and reset endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	withConsole := appmiddleware.WithConsole(registryStore{consoles: deps.Consoles}, cfg.AppEnv == "production")

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler()
	pwH := handler.NewPasswordRecoveryHandler()
	emailH := handler.NewEmailConfirmHandler()
	superH := handler.NewSuperAdminHandler()
	campusH := handler.NewCampusHandler(deps.Campus)

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (map viewer, embed widget) ─────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/universities", campusH.ListUniversities)
		r.Get("/universities/{id}/buildings", campusH.ListBuildings)
		r.Get("/buildings/{id}/rooms", campusH.ListRooms)
		r.Get("/search", campusH.Search)

		// ── Console routes ───────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(withConsole)

			r.Get("/session", sessionH.GetCurrent)
			r.With(sensitiveRL.Limit).Post("/session/login", sessionH.Login)
			r.With(sensitiveRL.Limit).Post("/session/register", sessionH.Register)
			r.Post("/session/logout", sessionH.Logout)

			r.With(sensitiveRL.Limit).Post("/password/reset", pwH.Reset)
			r.With(sensitiveRL.Limit).Post("/password/recover", pwH.Recover)
			r.Post("/password/update", pwH.Update)
			r.Post("/email/confirm", emailH.Confirm)
			r.With(sensitiveRL.Limit).Post("/email/resend", emailH.Resend)

			r.With(sensitiveRL.Limit).Post("/super-admin/key", superH.RequestKey)
			r.With(sensitiveRL.Limit).Post("/super-admin/key/resend", superH.ResendKey)
			r.With(sensitiveRL.Limit).Post("/super-admin/key/verify", superH.VerifyKey)
			r.Post("/super-admin/session/extend", superH.Extend)

			// University admin
			r.With(appmiddleware.RequireRegularAdmin).Get("/university", campusH.GetUniversity)
			r.With(appmiddleware.RequireRegularAdmin).Get("/university/rooms", campusH.ListUniversityRooms)

			// Either admin
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireAdmin)

				r.Post("/buildings", campusH.CreateBuilding)
				r.Put("/buildings/{id}", campusH.UpdateBuilding)
				r.Delete("/buildings/{id}", campusH.DeleteBuilding)
				r.Put("/universities/{id}", campusH.UpdateUniversity)

				r.Post("/rooms", campusH.CreateRoom)
				r.Post("/rooms/bulk", campusH.CreateRooms)
				r.Put("/rooms/{id}", campusH.UpdateRoom)
				r.Delete("/rooms/{id}", campusH.DeleteRoom)
				r.Put("/rooms/{id}/timetable", campusH.SetTimetable)
				r.Delete("/rooms/{id}/timetable", campusH.ClearTimetable)
			})

			// Super admin
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireSuperAdmin)

				r.Delete("/universities/{id}", campusH.DeleteUniversity)
				r.Get("/super-admin/stats", campusH.Stats)
				r.Get("/super-admin/admins", campusH.ListAdmins)
			})
		})
	})

	return r, sensitiveRL.Stop
}
