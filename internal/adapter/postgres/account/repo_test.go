package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/heartmarshall/wordbook/internal/adapter/postgres/account"
	"github.com/heartmarshall/wordbook/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wordbook/internal/domain"
)

func newRepo(t *testing.T) *account.Repo {
	t.Helper()
	return account.New(testhelper.SetupTestDB(t))
}

func ptrStr(s string) *string { return &s }

func sampleBook() domain.SavedBook {
	return domain.SavedBook{
		Name: "chapter 3",
		Words: domain.WordList{
			{
				Spell:         "office",
				Symbols:       domain.Symbols{EN: ptrStr("[ˈɒfɪs]"), US: ptrStr("[ˈɔfɪs]")},
				Pronunciation: domain.Pronunciation{US: ptrStr("https://example.com/office.mp3")},
				Explains:      []domain.Explain{{PartOfSpeech: "n.", Meaning: "办公室"}},
				Examples:      []domain.Example{{Sentence: "She is in the office.", Translation: "她在办公室。"}},
			},
			domain.NewPlaceholder("zzxq"),
		},
	}
}

func TestRepo_SaveLoad(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	name := "alice-" + uuid.NewString()[:8]

	if err := repo.Save(ctx, name, sampleBook()); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}

	got, err := repo.Load(ctx, name)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if diff := cmp.Diff(sampleBook(), got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestRepo_SaveReplaces(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	name := "bob-" + uuid.NewString()[:8]

	if err := repo.Save(ctx, name, sampleBook()); err != nil {
		t.Fatalf("Save #1: %v", err)
	}
	if err := repo.Save(ctx, name, domain.SavedBook{Name: "empty"}); err != nil {
		t.Fatalf("Save #2: %v", err)
	}

	got, err := repo.Load(ctx, name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "empty" {
		t.Errorf("Name = %q, want %q", got.Name, "empty")
	}
	if got.Words == nil || len(got.Words) != 0 {
		t.Errorf("Words = %#v, want empty non-nil list", got.Words)
	}
}

func TestRepo_LoadNotFound(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	_, err := repo.Load(context.Background(), "missing-"+uuid.NewString())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Load: got %v, want ErrNotFound", err)
	}
}

func TestRepo_SaveEmptyName(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	err := repo.Save(context.Background(), "", sampleBook())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Save: got %v, want ErrValidation", err)
	}
}

func TestRepo_SaveLoadProgress(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	name := "gus-" + uuid.NewString()[:8]

	want := sampleBook()
	want.Progress = []domain.WordProgress{
		{Spell: "office", Right: 3, Wrong: 1, Streak: 2},
		{Spell: "zzxq", Wrong: 2},
	}
	if err := repo.Save(ctx, name, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(ctx, name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}
