package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/league-manager/docs"
	"github.com/Dosada05/league-manager/handlers"
	"github.com/Dosada05/league-manager/middleware"
	"github.com/Dosada05/league-manager/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// JWTSecret enables organizer authentication on mutating routes when set.
	JWTSecret      []byte
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Health.Healthz)
	router.Get("/swagger/doc.json", docs.Handler)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	protect := organizerOnly(opts)

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/token", h.Auth.TokenHandler)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.ListHandler)
			r.With(protect...).Post("/", h.Tournament.CreateHandler)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", h.Tournament.GetByIDHandler)
				r.Get("/standings", h.Tournament.StandingsHandler)
				r.Get("/matches", h.Tournament.ListMatchesHandler)

				r.Group(func(r chi.Router) {
					r.Use(protect...)
					r.Patch("/", h.Tournament.UpdateHandler)
					r.Delete("/", h.Tournament.DeleteHandler)
					r.Post("/teams", h.Tournament.AddTeamHandler)
					r.Delete("/teams/{teamID}", h.Tournament.RemoveTeamHandler)
					r.Post("/generate-fixtures", h.Tournament.GenerateFixturesHandler)
					r.Post("/clear-fixtures", h.Tournament.ClearFixturesHandler)
					r.Post("/export", h.Tournament.ExportHandler)
				})
			})
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", h.Match.GetByIDHandler)
			r.With(protect...).Post("/result", h.Match.RecordResultHandler)
		})
	})
}

// organizerOnly is empty when authentication is not configured.
func organizerOnly(opts Options) []func(http.Handler) http.Handler {
	if len(opts.JWTSecret) == 0 {
		return nil
	}
	return []func(http.Handler) http.Handler{
		middleware.Authenticate(opts.JWTSecret, opts.Logger),
		middleware.Authorize(models.RoleOrganizer),
	}
}
