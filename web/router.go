/* router.go
 * Contains the Server type and the chi routes of the HTTP API
 * Authors: Zachary Bower
 */

package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"tennis-league/api/api"
	"tennis-league/ratelimit"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Server serves the league API, the live match feed and the metrics endpoint
type Server struct {
	api      *api.API
	logger   *slog.Logger
	metrics  *metrics
	limiter  *ratelimit.Limiter
	origins  []string
	upgrader websocket.Upgrader
}

// NewServer creates a server from its configuration
// Preconditions: cfg.API is required. Missing origins default to "*"
// Postconditions: Returns the server, or an error when the API is missing
func NewServer(cfg Config) (*Server, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("API is required but none was provided")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		api:     cfg.API,
		logger:  logger.With(slog.String("component", "web")),
		metrics: newMetrics(),
		origins: origins,
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = ratelimit.New(rate.Limit(cfg.RateLimitRPS), max(cfg.RateLimitBurst, 1))
	}
	s.upgrader = s.newUpgrader()
	return s, nil
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthHandler)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	r.Get("/ws/groups/{groupID}/matches", s.matchFeedHandler)

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}

		r.Get("/groups", s.groupsHandler)
		r.Route("/groups/{groupID}", func(r chi.Router) {
			r.Get("/matches", s.groupMatchesHandler)
			r.Put("/matches/{matchID}/score", s.submitScoreHandler)
			r.Post("/matches/{matchID}/walkover", s.walkoverHandler)
			r.Get("/leaderboard", s.groupLeaderboardHandler)
			r.Post("/standings", s.generateStandingsHandler)
		})

		r.Get("/leaderboards", s.leaderboardsHandler)
		r.Get("/rankings", s.rankingHandler)
		r.Get("/rankings/{roundID}", s.rankingForRoundHandler)
		r.Post("/rankings/{roundID}", s.publishRankingHandler)
		r.Get("/rounds/active", s.activeRoundHandler)
		r.Get("/rounds/{roundID}/ranking", s.roundRankingHandler)
		r.Get("/years", s.yearsHandler)

		r.Get("/players", s.findPlayerHandler)
		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/", s.playerHandler)
			r.Put("/", s.updateProfileHandler)
			r.Get("/availability", s.availabilityHandler)
			r.Put("/availability", s.setAvailabilityHandler)
			r.Get("/availability/week", s.weekHandler)
		})
	})

	return r
}

// logRequests writes one structured log line per request
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			slog.String("id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)))
	})
}
