// Package wordcache keeps extracted dictionary entries keyed by headword so
// repeated lookups skip the remote dictionary.
package wordcache

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wordbook/internal/adapter/postgres"
	"github.com/heartmarshall/wordbook/internal/domain"
)

const (
	table          = "dictionary_entries"
	upsertConflict = "ON CONFLICT (spell) DO UPDATE SET entry = EXCLUDED.entry, fetched_at = EXCLUDED.fetched_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo is the postgres word cache.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word cache repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetBySpells returns the cached entries among spells. Misses are simply
// absent from the result; order is unspecified.
func (r *Repo) GetBySpells(ctx context.Context, spells []string) ([]domain.WordEntry, error) {
	if len(spells) == 0 {
		return []domain.WordEntry{}, nil
	}

	query, args, err := psql.
		Select("entry").
		From(table).
		Where(sq.Expr("spell = ANY(?)", spells)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("wordcache: build select: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "dictionary entries", fmt.Sprint(len(spells)))
	}

	raws, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, postgres.MapError(err, "dictionary entries", fmt.Sprint(len(spells)))
	}

	entries := make([]domain.WordEntry, 0, len(raws))
	for _, raw := range raws {
		var e domain.WordEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("wordcache: decode entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Upsert stores entry under its spell, replacing any older copy.
func (r *Repo) Upsert(ctx context.Context, entry domain.WordEntry) error {
	query, args, err := upsertQuery(entry)
	if err != nil {
		return err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "dictionary entry", entry.Spell)
	}
	return nil
}

// UpsertMany stores entries in one round trip.
func (r *Repo) UpsertMany(ctx context.Context, entries []domain.WordEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		query, args, err := upsertQuery(e)
		if err != nil {
			return err
		}
		batch.Queue(query, args...)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for _, e := range entries {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(err, "dictionary entry", e.Spell)
		}
	}
	return nil
}

func upsertQuery(entry domain.WordEntry) (string, []any, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return "", nil, fmt.Errorf("wordcache: encode %s: %w", entry.Spell, err)
	}

	query, args, err := psql.
		Insert(table).
		Columns("spell", "entry", "fetched_at").
		Values(entry.Spell, data, sq.Expr("now()")).
		Suffix(upsertConflict).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("wordcache: build upsert: %w", err)
	}
	return query, args, nil
}
