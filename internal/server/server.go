// Package server exposes the thread generation pipeline over a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/threadforge/threadforge/internal/core/generate"
	"github.com/threadforge/threadforge/internal/ingest"
	"github.com/threadforge/threadforge/internal/platform/config"
	db "github.com/threadforge/threadforge/internal/storage"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json; charset=utf-8"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second

	// maxTrackedClients bounds the per-IP limiter map under IP churn.
	maxTrackedClients = 10000
	clientIdleTTL     = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Server serves the thread generation API.
type Server struct {
	cfg          *config.Config
	orchestrator *generate.Orchestrator
	fetcher      *ingest.Fetcher
	database     *db.DB
	logger       *zerolog.Logger

	// IP-based rate limiting
	limiters   map[string]*clientLimiter
	limitersMu sync.Mutex
}

// New creates an API server. database and fetcher may be nil when the
// corresponding features are disabled.
func New(cfg *config.Config, orchestrator *generate.Orchestrator, fetcher *ingest.Fetcher, database *db.DB, logger *zerolog.Logger) *Server {
	return &Server{
		cfg:          cfg,
		orchestrator: orchestrator,
		fetcher:      fetcher,
		database:     database,
		logger:       logger,
		limiters:     make(map[string]*clientLimiter),
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/thread", s.handleGenerate)
	mux.HandleFunc("/api/history", s.handleHistoryList)
	mux.HandleFunc("/api/history/", s.handleHistoryGet)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.APIPort),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("api server shutdown failed")
		}
	}()

	s.logger.Info().Int("port", s.cfg.APIPort).Msg("api server listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}

	return nil
}

func (s *Server) allowRequest(ip string) bool {
	now := time.Now()

	s.limitersMu.Lock()

	cl, ok := s.limiters[ip]
	if !ok {
		if len(s.limiters) >= maxTrackedClients {
			s.pruneClientsLocked(now)
		}

		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.cfg.APIRateLimitRPS), s.cfg.APIRateLimitBurst)}
		s.limiters[ip] = cl
	}

	cl.lastSeen = now

	s.limitersMu.Unlock()

	return cl.limiter.Allow()
}

// pruneClientsLocked drops limiters idle past the TTL, then evicts
// arbitrary entries until the map is back under the cap. Callers hold
// limitersMu.
func (s *Server) pruneClientsLocked(now time.Time) {
	for ip, cl := range s.limiters {
		if now.Sub(cl.lastSeen) > clientIdleTTL {
			delete(s.limiters, ip)
		}
	}

	for ip := range s.limiters {
		if len(s.limiters) < maxTrackedClients {
			break
		}

		delete(s.limiters, ip)
	}
}

func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (common with reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}
