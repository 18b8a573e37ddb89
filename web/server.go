/* server.go
 * Contains the HTTP server that exposes the season engine to the chat and admin layers.
 * Routing is gorilla/mux, responses are wrapped in CORS for the admin frontend, and a
 * token bucket keeps a misbehaving caller from hammering the simulation endpoints
 * Authors: Zachary Bower
 */

package web

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"liga-bot/api/api"
)

// Server is the HTTP server that handles season requests
type Server struct {
	api     *api.API
	limiter *rate.Limiter
}

// NewServer builds a Server from a Config
func NewServer(cfg Config) *Server {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &Server{
		api:     cfg.API,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
	}
}

// Router wires the season routes and the surrounding middleware
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	season := r.PathPrefix("/api/season").Subrouter()
	season.HandleFunc("/initialize", s.InitializeHandler).Methods(http.MethodPost)
	season.HandleFunc("/matches/{matchId}/simulate", s.SimulateMatchHandler).Methods(http.MethodPost)
	season.HandleFunc("/{userId}/progress", s.ProgressHandler).Methods(http.MethodGet)
	season.HandleFunc("/{userId}/matches/upcoming", s.UpcomingMatchesHandler).Methods(http.MethodGet)
	season.HandleFunc("/{userId}/matches/recent", s.RecentMatchesHandler).Methods(http.MethodGet)
	season.HandleFunc("/{userId}/standings", s.StandingsHandler).Methods(http.MethodGet)
	season.HandleFunc("/{userId}/standings/team/{name}", s.TeamStandingsHandler).Methods(http.MethodGet)
	season.HandleFunc("/{userId}/standings/recalculate", s.RecalculateHandler).Methods(http.MethodPost)
	season.HandleFunc("/{userId}/reset", s.ResetSeasonHandler).Methods(http.MethodPost)
	season.HandleFunc("/{userId}/new-season", s.NewSeasonHandler).Methods(http.MethodPost)

	return cors.Default().Handler(s.rateLimit(r))
}

// rateLimit rejects requests beyond the configured budget with 429
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start initializes and starts the HTTP server with the given configuration
func Start(cfg Config) error {
	s := NewServer(cfg)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Println("HTTP server listening on", cfg.Addr)
	return srv.ListenAndServe()
}
