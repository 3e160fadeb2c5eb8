// Package account stores each account's saved book in PostgreSQL.
package account

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wordbook/internal/adapter/postgres"
	"github.com/heartmarshall/wordbook/internal/domain"
)

const table = "accounts"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo is the postgres account store.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new account repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Load returns the saved book for account, or domain.ErrNotFound.
func (r *Repo) Load(ctx context.Context, account string) (domain.SavedBook, error) {
	query, args, err := psql.
		Select("book", "words", "progress").
		From(table).
		Where(sq.Eq{"name": account}).
		ToSql()
	if err != nil {
		return domain.SavedBook{}, fmt.Errorf("account: build select: %w", err)
	}

	var (
		book            domain.SavedBook
		words, progress []byte
	)
	q := postgres.QuerierFromCtx(ctx, r.pool)
	if err := q.QueryRow(ctx, query, args...).Scan(&book.Name, &words, &progress); err != nil {
		return domain.SavedBook{}, postgres.MapError(err, "account", account)
	}

	if err := json.Unmarshal(words, &book.Words); err != nil {
		return domain.SavedBook{}, fmt.Errorf("account %s: decode words: %w", account, err)
	}
	if book.Words == nil {
		book.Words = domain.WordList{}
	}
	if err := json.Unmarshal(progress, &book.Progress); err != nil {
		return domain.SavedBook{}, fmt.Errorf("account %s: decode progress: %w", account, err)
	}
	if len(book.Progress) == 0 {
		book.Progress = nil
	}
	return book, nil
}

// Save inserts or replaces the saved book for account.
func (r *Repo) Save(ctx context.Context, account string, book domain.SavedBook) error {
	words := book.Words
	if words == nil {
		words = domain.WordList{}
	}
	data, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("account %s: encode words: %w", account, err)
	}
	progress := book.Progress
	if progress == nil {
		progress = []domain.WordProgress{}
	}
	progressData, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("account %s: encode progress: %w", account, err)
	}

	query, args, err := psql.
		Insert(table).
		Columns("name", "book", "words", "progress", "updated_at").
		Values(account, book.Name, data, progressData, sq.Expr("now()")).
		Suffix("ON CONFLICT (name) DO UPDATE SET book = EXCLUDED.book, words = EXCLUDED.words, progress = EXCLUDED.progress, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("account: build upsert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "account", account)
	}
	return nil
}
