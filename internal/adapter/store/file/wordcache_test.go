package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordbook/internal/domain"
)

func entry(spell string) domain.WordEntry {
	return domain.WordEntry{
		Spell:    spell,
		Symbols:  domain.Symbols{US: strPtr("[" + spell + "]")},
		Explains: []domain.Explain{{PartOfSpeech: "n.", Meaning: spell}},
	}
}

func TestWordCache_MissesOnEmptyDir(t *testing.T) {
	t.Parallel()

	c := NewWordCache(filepath.Join(t.TempDir(), "missing"))

	got, err := c.GetBySpells(context.Background(), []string{"cat"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWordCache_UpsertThenGet(t *testing.T) {
	t.Parallel()

	c := NewWordCache(t.TempDir())
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, entry("cat")))
	require.NoError(t, c.UpsertMany(ctx, []domain.WordEntry{entry("dog"), entry("owl")}))

	got, err := c.GetBySpells(ctx, []string{"owl", "bat", "cat"})
	require.NoError(t, err)
	assert.Equal(t, []domain.WordEntry{entry("owl"), entry("cat")}, got)
}

func TestWordCache_SpellsAreCaseSensitive(t *testing.T) {
	t.Parallel()

	c := NewWordCache(t.TempDir())
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, entry("Polish")))

	got, err := c.GetBySpells(ctx, []string{"polish"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWordCache_UpsertReplaces(t *testing.T) {
	t.Parallel()

	c := NewWordCache(t.TempDir())
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, entry("cat")))
	newer := entry("cat")
	newer.Explains = []domain.Explain{{PartOfSpeech: "v.", Meaning: "vomit"}}
	require.NoError(t, c.Upsert(ctx, newer))

	got, err := c.GetBySpells(ctx, []string{"cat"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "vomit", got[0].Explains[0].Meaning)
}

func TestWordCache_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, NewWordCache(dir).UpsertMany(ctx, []domain.WordEntry{entry("cat"), entry("dog")}))

	got, err := NewWordCache(dir).GetBySpells(ctx, []string{"dog"})
	require.NoError(t, err)
	assert.Equal(t, []domain.WordEntry{entry("dog")}, got)
}

func TestWordCache_SkipsPlaceholders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := NewWordCache(dir)
	ctx := context.Background()

	require.NoError(t, c.UpsertMany(ctx, []domain.WordEntry{domain.NewPlaceholder("qwzx"), {}}))

	got, err := c.GetBySpells(ctx, []string{"qwzx", ""})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = os.Stat(filepath.Join(dir, cacheFile))
	assert.ErrorIs(t, err, os.ErrNotExist, "nothing to write")
}

func TestWordCache_SharesDirWithAccounts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	store, cache := New(dir), NewWordCache(dir)

	require.NoError(t, cache.Upsert(ctx, entry("cat")))
	require.NoError(t, store.Save(ctx, "words", sampleBook()))
	require.NoError(t, store.Save(ctx, "words.cache", sampleBook()))

	got, err := NewWordCache(dir).GetBySpells(ctx, []string{"cat"})
	require.NoError(t, err)
	assert.Equal(t, []domain.WordEntry{entry("cat")}, got)

	book, err := store.Load(ctx, "words.cache")
	require.NoError(t, err)
	assert.Equal(t, sampleBook(), book)
}

func TestWordCache_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFile), []byte("[1,2"), 0o644))

	_, err := NewWordCache(dir).GetBySpells(context.Background(), []string{"cat"})
	require.Error(t, err)
}

func TestWordCache_ConcurrentUpserts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := NewWordCache(dir)
	ctx := context.Background()
	spells := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, s := range spells {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Upsert(ctx, entry(s)))
		}()
	}
	wg.Wait()

	got, err := NewWordCache(dir).GetBySpells(ctx, spells)
	require.NoError(t, err)
	assert.Len(t, got, len(spells))
}

func TestWordCache_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewWordCache(t.TempDir())

	_, err := c.GetBySpells(ctx, []string{"cat"})
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, c.Upsert(ctx, entry("cat")), context.Canceled)
}
