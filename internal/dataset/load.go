package dataset

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ademuri/kexp-tastemakers/internal/store"
)

type LoadOptions struct {
	// Sheet is the xlsx worksheet to read; empty means the first one.
	Sheet string
}

// Load reads every playlist row from path, picking the reader by extension.
func Load(path string, opts LoadOptions) ([]Play, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("dataset %q: %w", path, err)
	}

	var plays []Play
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv":
		plays, err = loadDelimited(path, ext)
	case ".xlsx":
		plays, err = ReadXLSX(path, opts.Sheet)
	case ".db", ".sqlite", ".sqlite3":
		plays, err = loadStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", path, err)
	}
	return plays, nil
}

func loadDelimited(path string, ext string) ([]Play, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	comma := ','
	if ext == ".tsv" {
		comma = '\t'
	}
	return ReadCSV(f, comma)
}

func loadStore(path string) ([]Play, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Plays()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	plays := make([]Play, len(rows))
	for i, r := range rows {
		plays[i] = NewPlay(r.Artist, r.Host, r.PlayedAt)
	}
	return plays, nil
}

// Sample draws n rows uniformly without replacement using a generator
// seeded with seed, so the same input and seed always give the same rows.
// Selected rows keep their original order. n <= 0 or n >= len(plays)
// returns plays unchanged.
func Sample(plays []Play, n int, seed int64) []Play {
	if n <= 0 || n >= len(plays) {
		return plays
	}

	r := rand.New(rand.NewSource(seed))
	picked := r.Perm(len(plays))[:n]
	sort.Ints(picked)

	sample := make([]Play, n)
	for i, idx := range picked {
		sample[i] = plays[idx]
	}
	return sample
}

// Between keeps plays with a timestamp in [start, end). A zero bound is
// open. Plays without a timestamp are dropped.
func Between(plays []Play, start, end time.Time) []Play {
	var kept []Play
	for _, p := range plays {
		if !p.HasTime {
			continue
		}
		if !start.IsZero() && p.PlayedAt.Before(start) {
			continue
		}
		if !end.IsZero() && !p.PlayedAt.Before(end) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
