package store

import (
	"database/sql"
	"fmt"
	"time"
)

// PlayImport is one playlist row as it appears in the source file.
type PlayImport struct {
	Artist   string
	Host     string
	PlayedAt string // RFC 3339, empty when the source had no usable timestamp
}

// AddPlays inserts a batch of plays transactionally. Rows already present
// (same artist, host and timestamp) are skipped, so re-importing a file is
// idempotent. Returns the number of rows actually inserted.
func (s *Store) AddPlays(plays []PlayImport) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO Play (artist, host, played_at) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, play := range plays {
		res, err := stmt.Exec(play.Artist, play.Host, nullIfEmpty(play.PlayedAt))
		if err != nil {
			return 0, fmt.Errorf("inserting play %q/%q: %w", play.Artist, play.Host, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("inserting play: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted, nil
}

// SetLastImported records when the named dataset was last imported.
func (s *Store) SetLastImported(name string, imported time.Time, rows int64) error {
	_, err := s.db.Exec(`
		INSERT INTO Dataset (name, last_imported, rows) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET last_imported = excluded.last_imported, rows = excluded.rows`,
		name, imported, rows)
	if err != nil {
		return fmt.Errorf("updating last_imported for %q: %w", name, err)
	}
	return nil
}

// An empty timestamp is stored as NULL so that the unique index does not
// collapse distinct undated plays.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
