// Package account loads and saves per-account word lists.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wordbook/internal/domain"
)

type accountStore interface {
	Load(ctx context.Context, account string) (domain.SavedBook, error)
	Save(ctx context.Context, account string, book domain.SavedBook) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type wordCache interface {
	UpsertMany(ctx context.Context, entries []domain.WordEntry) error
}

// Service fronts the account store.
type Service struct {
	log   *slog.Logger
	store accountStore
	tx    txManager
	cache wordCache
}

// Option configures a Service.
type Option func(*Service)

// WithTx runs saves in a transaction.
func WithTx(tx txManager) Option {
	return func(s *Service) { s.tx = tx }
}

// WithWordCache stores every saved entry in the word cache as well.
func WithWordCache(c wordCache) Option {
	return func(s *Service) { s.cache = c }
}

// NewService creates an account Service.
func NewService(logger *slog.Logger, store accountStore, opts ...Option) *Service {
	s := &Service{
		log:   logger.With("service", "account"),
		store: store,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the saved book for account, or domain.ErrNotFound when the
// account has none.
func (s *Service) Load(ctx context.Context, account string) (domain.SavedBook, error) {
	name, err := normalizeAccount(account)
	if err != nil {
		return domain.SavedBook{}, err
	}

	book, err := s.store.Load(ctx, name)
	if err != nil {
		return domain.SavedBook{}, fmt.Errorf("account: load %s: %w", name, err)
	}
	return book, nil
}

// Update saves fn(prev), where prev is the account's saved book or the zero
// SavedBook when it has none. Real entries (not placeholders) also go to the
// word cache. Load, save and cache writes share a transaction when one is
// configured.
func (s *Service) Update(ctx context.Context, account string, fn func(prev domain.SavedBook) domain.SavedBook) error {
	name, err := normalizeAccount(account)
	if err != nil {
		return err
	}

	var book domain.SavedBook
	err = s.run(ctx, func(ctx context.Context) error {
		prev, err := s.store.Load(ctx, name)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		book = fn(prev)
		return s.persist(ctx, name, book)
	})
	if err != nil {
		return fmt.Errorf("account: update %s: %w", name, err)
	}

	s.log.InfoContext(ctx, "book updated",
		slog.String("account", name),
		slog.String("book", book.Name),
		slog.Int("words", len(book.Words)),
		slog.Int("progress", len(book.Progress)),
	)
	return nil
}

// KeepProgress returns an Update func that replaces the saved words and
// keeps the practice history.
func KeepProgress(name string, words domain.WordList) func(domain.SavedBook) domain.SavedBook {
	return func(prev domain.SavedBook) domain.SavedBook {
		return domain.SavedBook{Name: name, Words: words, Progress: prev.Progress}
	}
}

func (s *Service) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx != nil {
		return s.tx.RunInTx(ctx, fn)
	}
	return fn(ctx)
}

func (s *Service) persist(ctx context.Context, name string, book domain.SavedBook) error {
	if err := s.store.Save(ctx, name, book); err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.UpsertMany(ctx, cacheable(book.Words))
}

func normalizeAccount(account string) (string, error) {
	name := domain.NormalizeAccount(account)
	if name == "" {
		return "", domain.NewValidationError("account", "required")
	}
	return name, nil
}

func cacheable(words domain.WordList) []domain.WordEntry {
	out := make([]domain.WordEntry, 0, len(words))
	for _, w := range words {
		if !w.Placeholder {
			out = append(out, w)
		}
	}
	return out
}
