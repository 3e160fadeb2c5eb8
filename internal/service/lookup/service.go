// Package lookup resolves a single headword into a WordEntry: word cache
// first, then the remote dictionary.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/wordbook/internal/domain"
	"github.com/heartmarshall/wordbook/internal/provider"
)

type fetcher interface {
	Fetch(ctx context.Context, word string) (provider.Markup, error)
}

type wordCache interface {
	GetBySpells(ctx context.Context, spells []string) ([]domain.WordEntry, error)
	Upsert(ctx context.Context, entry domain.WordEntry) error
}

// Service implements on-demand lookups.
type Service struct {
	log     *slog.Logger
	fetcher fetcher
	adapter provider.MarkupAdapter
	cache   wordCache
	loader  *dataloader.Loader[string, *domain.WordEntry]
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables the word cache. Concurrent reads are batched.
func WithCache(c wordCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// NewService creates a lookup Service.
func NewService(logger *slog.Logger, f fetcher, adapter provider.MarkupAdapter, opts ...Option) *Service {
	s := &Service{
		log:     logger.With("service", "lookup"),
		fetcher: f,
		adapter: adapter,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache != nil {
		s.loader = newCacheLoader(s.cache)
	}
	return s
}

// Lookup returns the entry for word. A cached entry is returned as is;
// otherwise the dictionary page is fetched, extracted and cached.
func (s *Service) Lookup(ctx context.Context, word string) (domain.WordEntry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return domain.WordEntry{}, domain.NewValidationError("word", "required")
	}

	if cached, ok := s.fromCache(ctx, word); ok {
		return cached, nil
	}

	markup, err := s.fetcher.Fetch(ctx, word)
	if err != nil {
		return domain.WordEntry{}, fmt.Errorf("lookup %q: %w", word, err)
	}

	entry, partial := provider.Extract(s.adapter, word, markup)
	if partial {
		s.log.DebugContext(ctx, "extraction incomplete",
			slog.String("word", word),
			slog.String("error", domain.ErrExtractionPartial.Error()),
		)
	}

	s.toCache(ctx, entry)

	return entry, nil
}

func (s *Service) fromCache(ctx context.Context, word string) (domain.WordEntry, bool) {
	if s.loader == nil {
		return domain.WordEntry{}, false
	}

	entry, err := s.loader.Load(ctx, word)()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.WarnContext(ctx, "word cache read failed, fetching",
				slog.String("word", word),
				slog.String("error", err.Error()),
			)
		}
		return domain.WordEntry{}, false
	}
	if entry == nil {
		return domain.WordEntry{}, false
	}
	return *entry, true
}

func (s *Service) toCache(ctx context.Context, entry domain.WordEntry) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Upsert(ctx, entry); err != nil {
		s.log.WarnContext(ctx, "word cache write failed",
			slog.String("word", entry.Spell),
			slog.String("error", err.Error()),
		)
	}
}
