package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Plays returns every stored play in insertion order.
func (s *Store) Plays() ([]PlayImport, error) {
	rows, err := s.db.Query("SELECT artist, host, played_at FROM Play ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying plays: %w", err)
	}
	defer rows.Close()

	var plays []PlayImport
	for rows.Next() {
		var p PlayImport
		var playedAt sql.NullString
		if err := rows.Scan(&p.Artist, &p.Host, &playedAt); err != nil {
			return nil, fmt.Errorf("scanning play: %w", err)
		}
		p.PlayedAt = playedAt.String
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

func (s *Store) CountPlays() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM Play").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting plays: %w", err)
	}
	return count, nil
}

func (s *Store) GetLastImported(name string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_imported FROM Dataset WHERE name = ?", name)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last imported: %w", err)
	}
	return t.Time, nil
}
