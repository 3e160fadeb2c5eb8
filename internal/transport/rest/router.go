package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordbook/internal/config"
	"github.com/heartmarshall/wordbook/internal/transport/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Lookup   *LookupHandler
	Books    *BookHandler
	Sessions *SessionHandler
	Health   *HealthHandler
}

// NewRouter mounts all routes on a ServeMux and wraps it in the common
// middleware stack. limiter may be nil, which disables rate limiting.
func NewRouter(h Handlers, cfg config.Config, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	limit := func(next http.HandlerFunc) http.Handler { return next }
	limitBook := limit
	if limiter != nil {
		mw := limiter.Limit(cfg.RateLimit.LookupsPerMinute)
		limit = func(next http.HandlerFunc) http.Handler { return mw(next) }
		bookMW := limiter.LimitCost(cfg.RateLimit.LookupsPerMinute, bookCost)
		limitBook = func(next http.HandlerFunc) http.Handler { return bookMW(next) }
	}

	mux := http.NewServeMux()

	mux.Handle("GET /lookup", limit(h.Lookup.Lookup))
	mux.Handle("POST /books", limitBook(h.Books.Load))
	mux.HandleFunc("GET /accounts/{name}/book", h.Books.Saved)

	mux.HandleFunc("POST /sessions", h.Sessions.Start)
	mux.HandleFunc("GET /sessions/{id}", h.Sessions.Get)
	mux.HandleFunc("POST /sessions/{id}/keys", h.Sessions.Key)
	mux.HandleFunc("DELETE /sessions/{id}", h.Sessions.Finish)

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Account,
	)(mux)
}
