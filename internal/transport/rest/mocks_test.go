package rest

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/heartmarshall/wordbook/internal/domain"
	"github.com/heartmarshall/wordbook/internal/service/book"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type lookupServiceMock struct {
	LookupFunc func(ctx context.Context, word string) (domain.WordEntry, error)
}

func (m *lookupServiceMock) Lookup(ctx context.Context, word string) (domain.WordEntry, error) {
	return m.LookupFunc(ctx, word)
}

type bookLoaderMock struct {
	LoadBookFunc func(ctx context.Context, source string) (book.Result, error)
}

func (m *bookLoaderMock) LoadBook(ctx context.Context, source string) (book.Result, error) {
	return m.LoadBookFunc(ctx, source)
}

// accountServiceMock keeps saved books in memory.
type accountServiceMock struct {
	mu    sync.Mutex
	books map[string]domain.SavedBook
	err   error
}

func newAccountServiceMock() *accountServiceMock {
	return &accountServiceMock{books: map[string]domain.SavedBook{}}
}

func (m *accountServiceMock) Load(_ context.Context, account string) (domain.SavedBook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.SavedBook{}, m.err
	}
	b, ok := m.books[account]
	if !ok {
		return domain.SavedBook{}, domain.ErrNotFound
	}
	return b, nil
}

func (m *accountServiceMock) Update(_ context.Context, account string, fn func(domain.SavedBook) domain.SavedBook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.books[account] = fn(m.books[account])
	return nil
}

func (m *accountServiceMock) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *accountServiceMock) saved(account string) (domain.SavedBook, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[account]
	return b, ok
}
