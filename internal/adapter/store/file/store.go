// Package file keeps each account's saved book as a JSON file in a directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/heartmarshall/wordbook/internal/domain"
)

const ext = ".json"

// Store is a directory of <account>.json files.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New returns a Store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Ping reports whether the store directory exists or can be created.
func (s *Store) Ping(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}

// Load returns the saved book for account, or domain.ErrNotFound.
func (s *Store) Load(ctx context.Context, account string) (domain.SavedBook, error) {
	if err := ctx.Err(); err != nil {
		return domain.SavedBook{}, err
	}

	path, err := s.path(account)
	if err != nil {
		return domain.SavedBook{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.SavedBook{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SavedBook{}, fmt.Errorf("file store: read %s: %w", path, err)
	}

	var book domain.SavedBook
	if err := json.Unmarshal(data, &book); err != nil {
		return domain.SavedBook{}, fmt.Errorf("file store: decode %s: %w", path, err)
	}
	if book.Words == nil {
		book.Words = domain.WordList{}
	}
	return book, nil
}

// Save replaces the saved book for account. The file is written to a
// temporary name and renamed into place.
func (s *Store) Save(ctx context.Context, account string, book domain.SavedBook) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(account)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.dir, path, data); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}

// writeAtomic writes data to a temporary file in dir and renames it over
// path, so readers never see a partial file.
func writeAtomic(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// path maps an account name to its file. Names are normalized and escaped,
// so "Alice" and " alice " share a file and no name can leave the directory.
func (s *Store) path(account string) (string, error) {
	name := domain.NormalizeAccount(account)
	if name == "" {
		return "", domain.NewValidationError("account", "required")
	}
	return filepath.Join(s.dir, url.PathEscape(name)+ext), nil
}
