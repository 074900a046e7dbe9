package store

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS Dataset (
  name TEXT PRIMARY KEY,
  last_imported DATETIME,
  rows INTEGER
);

CREATE TABLE IF NOT EXISTS Play (
  id INTEGER PRIMARY KEY,
  artist TEXT NOT NULL,
  host TEXT NOT NULL,
  played_at TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS PlayUnique ON Play (artist, host, played_at);
`

type Store struct {
	db *sql.DB
}

// fileDSN builds a SQLite URI filename for dbPath. The path is escaped so
// '?' and '#' in it are not read as URI parameters or a fragment.
func fileDSN(dbPath, query string) string {
	u := url.URL{Scheme: "file", Path: dbPath, OmitHost: true, RawQuery: query}
	return u.String()
}

// New opens (creating if needed) the playlist database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", fileDSN(dbPath, ""))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Open opens an existing playlist database without creating any tables.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", fileDSN(dbPath, "mode=ro"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	exists, err := dbExists(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if !exists {
		db.Close()
		return nil, fmt.Errorf("database %q has no playlist data - run import first", dbPath)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	exists, err := dbExists(db)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

func dbExists(db *sql.DB) (bool, error) {
	// Play is the only table the loader needs
	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'Play'")
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking db existence: %w", err)
	}
	return true, nil
}
