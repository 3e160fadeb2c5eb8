package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/heartmarshall/wordbook/internal/domain"
)

// cacheFile has no .json suffix, so no account file can share its name.
const cacheFile = "words.cache"

// WordCache keeps extracted dictionary entries in one JSON file next to the
// account files, keyed by headword. The file is read once and rewritten on
// every upsert.
type WordCache struct {
	dir  string
	path string

	mu      sync.Mutex
	entries map[string]domain.WordEntry // nil until first use
}

// NewWordCache returns a cache stored in dir.
func NewWordCache(dir string) *WordCache {
	return &WordCache{dir: dir, path: filepath.Join(dir, cacheFile)}
}

// GetBySpells returns the cached entries among spells. Misses are absent
// from the result.
func (c *WordCache) GetBySpells(ctx context.Context, spells []string) ([]domain.WordEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return nil, err
	}

	out := make([]domain.WordEntry, 0, len(spells))
	for _, spell := range spells {
		if e, ok := c.entries[spell]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Upsert stores entry under its spell, replacing any older copy.
func (c *WordCache) Upsert(ctx context.Context, entry domain.WordEntry) error {
	return c.UpsertMany(ctx, []domain.WordEntry{entry})
}

// UpsertMany stores entries with a single file write. Placeholders are not
// cached.
func (c *WordCache) UpsertMany(ctx context.Context, entries []domain.WordEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return err
	}

	next := maps.Clone(c.entries)
	changed := false
	for _, e := range entries {
		if e.Placeholder || e.Spell == "" {
			continue
		}
		next[e.Spell] = e
		changed = true
	}
	if !changed {
		return nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("word cache: encode: %w", err)
	}
	if err := writeAtomic(c.dir, c.path, data); err != nil {
		return fmt.Errorf("word cache: %w", err)
	}
	c.entries = next
	return nil
}

func (c *WordCache) loadLocked() error {
	if c.entries != nil {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		c.entries = map[string]domain.WordEntry{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("word cache: read %s: %w", c.path, err)
	}

	entries := map[string]domain.WordEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("word cache: decode %s: %w", c.path, err)
	}
	if entries == nil {
		entries = map[string]domain.WordEntry{}
	}
	c.entries = entries
	return nil
}
