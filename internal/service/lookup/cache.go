package lookup

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/wordbook/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// newCacheLoader batches concurrent cache reads (one per in-flight word of a
// book) into a single GetBySpells call. The loader keeps no results of its
// own: the cache is the source of truth and is written after every fetch.
func newCacheLoader(c wordCache) *dataloader.Loader[string, *domain.WordEntry] {
	return dataloader.NewBatchedLoader(
		newCacheBatchFn(c),
		dataloader.WithWait[string, *domain.WordEntry](wait),
		dataloader.WithBatchCapacity[string, *domain.WordEntry](maxBatch),
		dataloader.WithCache[string, *domain.WordEntry](&dataloader.NoCache[string, *domain.WordEntry]{}),
	)
}

func newCacheBatchFn(c wordCache) dataloader.BatchFunc[string, *domain.WordEntry] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*domain.WordEntry] {
		// ctx belongs to whichever caller opened the batch; its
		// cancellation must not fail the other callers' keys.
		entries, err := c.GetBySpells(context.WithoutCancel(ctx), keys)
		if err != nil {
			results := make([]*dataloader.Result[*domain.WordEntry], len(keys))
			for i := range results {
				results[i] = &dataloader.Result[*domain.WordEntry]{Error: err}
			}
			return results
		}

		bySpell := make(map[string]*domain.WordEntry, len(entries))
		for i := range entries {
			bySpell[entries[i].Spell] = &entries[i]
		}

		// Missing keys resolve to nil: a miss, not an error.
		results := make([]*dataloader.Result[*domain.WordEntry], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[*domain.WordEntry]{Data: bySpell[key]}
		}
		return results
	}
}
