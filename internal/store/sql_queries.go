package store

import (
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const kvEntriesTable = "kv_entries"

// upsertEntrySuffix turns the INSERT into an upsert that bumps the version.
// Both PostgreSQL and SQLite (3.35+) accept this form.
const upsertEntrySuffix = `ON CONFLICT (entry_key) DO UPDATE SET
			entry_value = excluded.entry_value,
			version     = kv_entries.version + 1,
			updated_at  = excluded.updated_at
		RETURNING version, updated_at`

func buildGetEntryQuery(ph sq.PlaceholderFormat, key string) (string, []any, error) {
	query, args, err := sq.
		Select("entry_value", "version", "updated_at").
		From(kvEntriesTable).
		Where(sq.Eq{"entry_key": key}).
		PlaceholderFormat(ph).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertEntryQuery(ph sq.PlaceholderFormat, key string, value json.RawMessage, updatedAt int64) (string, []any, error) {
	query, args, err := sq.
		Insert(kvEntriesTable).
		Columns("entry_key", "entry_value", "version", "updated_at").
		Values(key, string(value), 1, updatedAt).
		Suffix(upsertEntrySuffix).
		PlaceholderFormat(ph).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
