package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Billy-Davies-2/spirit11-ui/internal/auth"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/metrics"
)

// Router builds the HTTP API.
//
//	/api/...        participant dashboard
//	/admin/api/...  admin dashboard
//	/healthz /readyz /api/health /metrics
func (h *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
	r.Get("/api/health", h.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))
			r.Post("/auth/login", h.auth.LoginHandler(false))
			r.Post("/auth/register", h.auth.RegisterHandler(auth.ParticipantPolicy))
			r.Post("/auth/logout", h.logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware)
			r.Get("/events", h.Events)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(30 * time.Second))
				r.Get("/me", h.Me)
				r.Get("/players", h.ListPlayers)
				r.Get("/players/{id}", h.GetPlayer)

				r.Get("/roster", h.GetRoster)
				r.Post("/roster/team", h.CreateTeam)
				r.Post("/roster/players", h.AddToRoster)
				r.Delete("/roster/players/{id}", h.RemoveFromRoster)
				for _, action := range []string{"review", "back", "edit", "cancel"} {
					r.Post("/roster/"+action, h.RosterTransition(action))
				}
				r.Post("/roster/save", h.SaveRoster)

				r.Get("/leaderboard", h.Leaderboard)
				r.Get("/leaderboard/teams/{id}/history", h.TeamHistory)
				r.Get("/tournament/summary", h.TournamentSummary)

				r.Get("/chat", h.ChatHistory)
				r.Post("/chat", h.SendChat)
				r.Delete("/chat", h.ResetChat)
			})
		})
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))
			r.Post("/auth/login", h.auth.LoginHandler(true))
			r.Post("/auth/register", h.auth.RegisterHandler(auth.AdminPolicy))
			r.Post("/auth/logout", h.logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.auth.AdminMiddleware)
			r.Get("/events", h.Events)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(30 * time.Second))
				r.Get("/players", h.AdminListPlayers)
				r.Post("/players", h.AdminCreatePlayer)
				r.Get("/players/{id}", h.AdminGetPlayer)
				r.Put("/players/{id}", h.AdminUpdatePlayer)
				r.Delete("/players/{id}", h.AdminDeletePlayer)
				r.Get("/summary", h.TournamentSummary)
				r.Get("/leaderboard", h.Leaderboard)
				r.Get("/leaderboard/teams/{id}/history", h.TeamHistory)
			})
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
