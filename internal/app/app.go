package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/heartmarshall/wordbook/internal/config"
	"github.com/heartmarshall/wordbook/internal/transport/middleware"
	"github.com/heartmarshall/wordbook/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, wires the
// services, and serves HTTP until ctx is cancelled or SIGINT/SIGTERM
// arrives, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, os.Stderr)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("store", cfg.Store.Driver),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svcs, closeSvcs, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSvcs()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      NewHandler(cfg, svcs, limiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server, logger)
}

// NewHandler builds the full HTTP handler for svcs.
func NewHandler(cfg *config.Config, svcs *Services, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	return rest.NewRouter(rest.Handlers{
		Lookup:   rest.NewLookupHandler(svcs.Lookup, logger),
		Books:    rest.NewBookHandler(svcs.Books, svcs.Accounts, logger),
		Sessions: rest.NewSessionHandler(svcs.Practice, svcs.Accounts, logger),
		Health:   rest.NewHealthHandler(svcs.Checks, Version),
	}, *cfg, limiter, logger)
}

func serve(ctx context.Context, srv *http.Server, cfg config.ServerConfig, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("app: http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
