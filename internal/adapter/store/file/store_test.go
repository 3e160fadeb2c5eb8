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

func strPtr(s string) *string { return &s }

func sampleBook() domain.SavedBook {
	return domain.SavedBook{
		Name: "week 1",
		Words: domain.WordList{
			{
				Spell:         "police",
				Symbols:       domain.Symbols{EN: strPtr("[pəˈliːs]"), US: strPtr("[pəˈlis]")},
				Pronunciation: domain.Pronunciation{US: strPtr("https://example.com/police.mp3")},
				Explains:      []domain.Explain{{PartOfSpeech: "n.", Meaning: "警察"}},
			},
			domain.NewPlaceholder("qwzx"),
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := New(filepath.Join(t.TempDir(), "accounts"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "alice", sampleBook()))

	got, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, sampleBook(), got)
}

func TestStore_ProgressRoundTrip(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	ctx := context.Background()

	want := sampleBook()
	want.Progress = []domain.WordProgress{{Spell: "police", Right: 2, Wrong: 1, Streak: 1}}
	require.NoError(t, s.Save(ctx, "frank", want))

	got, err := s.Load(ctx, "frank")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_LoadMissing(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())

	_, err := s.Load(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_AccountNamesNormalized(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "  Alice ", sampleBook()))

	got, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "week 1", got.Name)
}

func TestStore_WhitespaceVariantsShareFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Mary\tJane", sampleBook()))

	got, err := s.Load(ctx, " mary   JANE ")
	require.NoError(t, err)
	assert.Equal(t, "week 1", got.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mary%20jane.json", entries[0].Name())
}

func TestStore_SlashInNameIsEscaped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(dir)

	p, err := s.path("Team/A")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "team%2Fa.json"), p)

	require.NoError(t, s.Save(context.Background(), "Team/A", sampleBook()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsDir())

	got, err := s.Load(context.Background(), "team/a")
	require.NoError(t, err)
	assert.Equal(t, "week 1", got.Name)
}

func TestStore_EmptyAccount(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())

	err := s.Save(context.Background(), "   ", sampleBook())
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Load(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestStore_NameCannotEscapeDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "accounts")
	s := New(dir)

	require.NoError(t, s.Save(context.Background(), "../evil", sampleBook()))

	_, err := os.Stat(filepath.Join(root, "evil.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "bob", sampleBook()))
	require.NoError(t, s.Save(ctx, "bob", domain.SavedBook{Name: "week 2", Words: domain.WordList{}}))

	got, err := s.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "week 2", got.Name)
	assert.Empty(t, got.Words)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "carol.json"), []byte("{not json"), 0o644))

	_, err := New(dir).Load(context.Background(), "carol")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Save(ctx, "dave", sampleBook()))
		}()
	}
	wg.Wait()

	got, err := s.Load(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, sampleBook(), got)
}

func TestStore_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(t.TempDir()).Save(ctx, "erin", sampleBook())
	require.ErrorIs(t, err, context.Canceled)
}
