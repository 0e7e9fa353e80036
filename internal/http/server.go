// Package http exposes the ledger engine as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackson973/projeto-indicadores-sub001/internal/cache"
	"github.com/jackson973/projeto-indicadores-sub001/internal/services"
	"github.com/jackson973/projeto-indicadores-sub001/internal/sheets"
)

type Server struct {
	http.Server
	svc         *services.LedgerService
	reader      sheets.SpreadsheetReader
	rateLimiter *rateLimiter

	// Read caches for the derived views; purged on every mutation so a
	// statement is never served against a stale entry set.
	statementCache *cache.LRU[statementView]
	dashboardCache *cache.LRU[dashboardView]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and returns a ready-to-run server. The
// spreadsheet reader may be nil, in which case the import endpoints report
// that no source is configured.
func NewServer(addr string, svc *services.LedgerService, reader sheets.SpreadsheetReader) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:              svc,
		reader:           reader,
		rateLimiter:      newRateLimiter(),
		statementCache:   cache.NewLRU[statementView](100, 5*time.Minute),
		dashboardCache:   cache.NewLRU[dashboardView](50, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/boxes", s.wrap(s.handleListBoxes))
	mux.HandleFunc("POST /api/boxes", s.wrap(s.handleCreateBox))
	mux.HandleFunc("PUT /api/boxes/{id}", s.wrap(s.handleRenameBox))
	mux.HandleFunc("DELETE /api/boxes/{id}", s.wrap(s.handleDeleteBox))

	mux.HandleFunc("GET /api/categories", s.wrap(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.wrap(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.wrap(s.handleRenameCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.wrap(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/entries", s.wrap(s.handleListEntries))
	mux.HandleFunc("POST /api/entries", s.wrap(s.handleCreateEntry))
	mux.HandleFunc("PUT /api/entries/{id}", s.wrap(s.handleUpdateEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", s.wrap(s.handleDeleteEntry))

	mux.HandleFunc("GET /api/recurrences", s.wrap(s.handleListRecurrences))
	mux.HandleFunc("POST /api/recurrences", s.wrap(s.handleCreateRecurrence))
	mux.HandleFunc("PUT /api/recurrences/{id}", s.wrap(s.handleUpdateRecurrence))
	mux.HandleFunc("DELETE /api/recurrences/{id}", s.wrap(s.handleDeleteRecurrence))
	mux.HandleFunc("POST /api/recurrences/materialize", s.wrap(s.handleMaterialize))

	mux.HandleFunc("GET /api/boxes/{id}/statement", s.wrap(s.handleStatement))
	mux.HandleFunc("GET /api/boxes/{id}/alerts", s.wrap(s.handleAlerts))
	mux.HandleFunc("GET /api/boxes/{id}/export", s.wrap(s.handleExportCSV))
	mux.HandleFunc("PUT /api/boxes/{id}/opening-balance", s.wrap(s.handleSetOpeningBalance))

	mux.HandleFunc("GET /api/dashboard", s.wrap(s.handleDashboard))

	mux.HandleFunc("POST /api/boxes/{id}/import/check", s.wrap(s.handleImportCheck))
	mux.HandleFunc("POST /api/boxes/{id}/import", s.wrap(s.handleImport))

	return s
}

// wrap applies rate limiting, security headers and request logging.
func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(clientIP(r)) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		start := time.Now()
		h(w, r)
		slog.Debug("Request handled",
			"method", r.Method,
			"url", r.URL.Path,
			requestDuration(start))
	}
}

// invalidate drops all cached read views. Called after every mutation.
func (s *Server) invalidate() {
	s.statementCache.Purge()
	s.dashboardCache.Purge()
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := s.statementCache.CleanExpired() + s.dashboardCache.CleanExpired()
			if cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Simple in-memory rate limiter, counting requests per client IP per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[ip]
	if !exists {
		rl.clients[ip] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}
	client.requests++
	client.lastRequest = now
	return client.requests <= 120
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStale()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
