// Package http carries the JSON API. Summary reads go through TTL'd LRU
// caches that every card or transaction mutation purges, so a response is
// never staler than the cache TTL even if an invalidation is missed.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"cardtrack/internal/cache"
	"cardtrack/internal/config"
	"cardtrack/internal/ingest"
	"cardtrack/internal/metrics"
	"cardtrack/internal/services"
	"cardtrack/internal/store"
	"cardtrack/internal/summary"
)

// SummaryCache holds the cached summary responses. It is built before the
// services so they can hold it as their invalidation target.
type SummaryCache struct {
	categories *cache.LRUCache[[]summary.CategoryShare]
	cards      *cache.LRUCache[[]summary.CardTotal]
	manager    *cache.Manager
}

func NewSummaryCache(size int, ttl time.Duration) *SummaryCache {
	c := &SummaryCache{
		categories: cache.NewLRUCache[[]summary.CategoryShare](size, ttl),
		cards:      cache.NewLRUCache[[]summary.CardTotal](size, ttl),
		manager:    cache.NewManager(),
	}
	c.manager.Register(c.categories)
	c.manager.Register(c.cards)
	c.manager.StartCleanup(10 * time.Minute)
	return c
}

// Stop halts the expiry cleanup goroutine.
func (c *SummaryCache) Stop() {
	c.manager.Stop()
}

// Invalidate drops everything. Called after every committed mutation.
func (c *SummaryCache) Invalidate() {
	c.categories.Purge()
	c.cards.Purge()
}

// monthKey scopes cache entries to the calendar month so a cached answer
// can never leak into the next month.
func monthKey(prefix string, t time.Time) string {
	return fmt.Sprintf("%s|%04d-%02d", prefix, t.Year(), int(t.Month()))
}

type Server struct {
	http.Server

	store   *store.Store
	cards   *services.CardService
	txs     *services.TransactionService
	sms     *ingest.Service
	caches  *SummaryCache
	limiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
// sms may be nil when no classifier is configured.
func NewServer(cfg *config.Config, st *store.Store, caches *SummaryCache, cards *services.CardService, txs *services.TransactionService, sms *ingest.Service) *Server {
	s := &Server{
		Server: http.Server{
			Addr:         ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:   st,
		cards:   cards,
		txs:     txs,
		sms:     sms,
		caches:  caches,
		limiter: newRateLimiter(cfg.RateLimitRPM),
	}
	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.withRequestID, s.withSecurityHeaders, s.withMetrics, s.withLogging, s.withRateLimit)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/cards", s.handleListCards).Methods(http.MethodGet)
	api.HandleFunc("/cards", s.handleCreateCard).Methods(http.MethodPost)
	api.HandleFunc("/cards/{id}", s.handleUpdateCard).Methods(http.MethodPut)
	api.HandleFunc("/cards/{id}", s.handleDeleteCard).Methods(http.MethodDelete)

	api.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", s.handleUpdateTransaction).Methods(http.MethodPut)
	api.HandleFunc("/transactions/{id}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	api.HandleFunc("/summary/categories", s.handleSummaryCategories).Methods(http.MethodGet)
	api.HandleFunc("/summary/cards", s.handleSummaryCards).Methods(http.MethodGet)

	api.HandleFunc("/sms", s.handleIngestSMS).Methods(http.MethodPost)
	api.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return r
}

// Shutdown stops the rate limiter's cleanup goroutine and drains the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		s.caches.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
