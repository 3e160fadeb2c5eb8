package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wordbook/internal/adapter/postgres"
	pgaccount "github.com/heartmarshall/wordbook/internal/adapter/postgres/account"
	"github.com/heartmarshall/wordbook/internal/adapter/postgres/wordcache"
	"github.com/heartmarshall/wordbook/internal/adapter/provider/bing"
	"github.com/heartmarshall/wordbook/internal/adapter/store/file"
	"github.com/heartmarshall/wordbook/internal/config"
	"github.com/heartmarshall/wordbook/internal/service/account"
	"github.com/heartmarshall/wordbook/internal/service/book"
	"github.com/heartmarshall/wordbook/internal/service/lookup"
	"github.com/heartmarshall/wordbook/internal/service/practice"
	"github.com/heartmarshall/wordbook/internal/transport/rest"
)

// Services is the wired service layer shared by the server and the CLI.
type Services struct {
	Lookup   *lookup.Service
	Books    *book.Loader
	Accounts *account.Service
	Practice *practice.Manager

	// Checks are the readiness probes for the selected store driver.
	Checks map[string]rest.Pinger
}

// Build wires services for cfg. The returned close func releases the
// database pool, if one was opened.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, func(), error) {
	fetcher := bing.NewFetcher(cfg.Dictionary, logger)
	extractor := bing.NewExtractor()

	svcs := &Services{
		Practice: practice.NewManager(logger),
		Checks:   map[string]rest.Pinger{},
	}
	closeFn := func() {}

	var lookupOpts []lookup.Option

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("app: connect database: %w", err)
		}
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("app: migrate: %w", err)
		}
		logger.Info("database connected", slog.Int("max_conns", int(pool.Config().MaxConns)))

		cache := wordcache.New(pool)
		lookupOpts = append(lookupOpts, lookup.WithCache(cache))
		svcs.Accounts = account.NewService(logger, pgaccount.New(pool),
			account.WithTx(postgres.NewTxManager(pool)),
			account.WithWordCache(cache),
		)
		svcs.Checks["database"] = pool
		closeFn = pool.Close

	default:
		store := file.New(cfg.Store.Dir)
		cache := file.NewWordCache(cfg.Store.Dir)
		lookupOpts = append(lookupOpts, lookup.WithCache(cache))
		svcs.Accounts = account.NewService(logger, store, account.WithWordCache(cache))
		svcs.Checks["store"] = store
		logger.Info("file store selected", slog.String("dir", cfg.Store.Dir))
	}

	svcs.Lookup = lookup.NewService(logger, fetcher, extractor, lookupOpts...)
	svcs.Books = book.NewLoader(logger, svcs.Lookup, cfg.Loader)

	return svcs, closeFn, nil
}
