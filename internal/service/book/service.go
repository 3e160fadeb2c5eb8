// Package book turns a raw text "book" into an ordered WordList by looking
// up every token with bounded parallelism.
package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wordbook/internal/config"
	"github.com/heartmarshall/wordbook/internal/domain"
)

type lookuper interface {
	Lookup(ctx context.Context, word string) (domain.WordEntry, error)
}

// FailedWord records a token whose lookup failed. Its slot in the result
// holds a placeholder entry.
type FailedWord struct {
	Index int
	Spell string
	Err   error
}

// Result is the outcome of loading a book.
type Result struct {
	Words  domain.WordList
	Failed []FailedWord
}

// Loader loads books.
type Loader struct {
	log         *slog.Logger
	lookup      lookuper
	concurrency int
}

// NewLoader creates a Loader. At most cfg.Concurrency lookups run at once,
// clamped to [1, config.MaxLoaderConcurrency].
func NewLoader(logger *slog.Logger, lookup lookuper, cfg config.LoaderConfig) *Loader {
	concurrency := min(max(cfg.Concurrency, 1), config.MaxLoaderConcurrency)
	return &Loader{
		log:         logger.With("service", "book"),
		lookup:      lookup,
		concurrency: concurrency,
	}
}

// LoadBook tokenizes source and looks up every token. The returned list is
// in token order and has one entry per token, whatever order the lookups
// finish in. A failed lookup does not stop the batch.
//
// If ctx is cancelled, queued tokens are not started, in-flight lookups
// are aborted and ctx.Err() is returned. A cancellation that arrives after
// every lookup has finished does not discard the result.
func (l *Loader) LoadBook(ctx context.Context, source string) (Result, error) {
	tokens := Tokenize(source)

	words := make(domain.WordList, len(tokens))
	errs := make([]error, len(tokens))

	// Plain Group: one word failing must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(l.concurrency)

	started := 0
	for i, token := range tokens {
		if ctx.Err() != nil {
			break
		}
		started++
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			entry, err := l.lookup.Lookup(ctx, token)
			if err != nil {
				errs[i] = err
				return nil
			}
			words[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil && interrupted(errs, started, len(tokens)) {
		l.log.InfoContext(ctx, "book load cancelled", slog.Int("words", len(tokens)))
		return Result{}, err
	}

	res := Result{Words: words}
	for i, err := range errs {
		if err == nil {
			continue
		}
		l.log.WarnContext(ctx, "word lookup failed",
			slog.String("word", tokens[i]),
			slog.String("error", err.Error()),
		)
		words[i] = domain.NewPlaceholder(tokens[i])
		res.Failed = append(res.Failed, FailedWord{Index: i, Spell: tokens[i], Err: err})
	}

	l.log.InfoContext(ctx, "book loaded",
		slog.Int("words", len(words)),
		slog.Int("failed", len(res.Failed)),
	)

	return res, nil
}

// interrupted reports whether cancellation left the batch incomplete:
// some token never started or some lookup ended with a context error.
func interrupted(errs []error, started, total int) bool {
	if started < total {
		return true
	}
	for _, err := range errs {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return true
		}
	}
	return false
}

// LoadFile reads a book from a text file and loads it.
func (l *Loader) LoadFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("book: read %s: %w", path, err)
	}
	return l.LoadBook(ctx, string(data))
}
