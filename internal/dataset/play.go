// Package dataset loads KEXP playlist rows from CSV, xlsx or an imported
// SQLite database and draws the reproducible sample the report runs on.
package dataset

import (
	"strings"
	"time"
)

// Play is a single playlist row.
type Play struct {
	Artist string
	Host   string
	// PlayedAt is UTC. Only meaningful when HasTime is set.
	PlayedAt time.Time
	HasTime  bool
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimestamp accepts the timestamp shapes found in playlist exports and
// returns the instant in UTC. Values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NewPlay builds a Play from raw column values.
func NewPlay(artist, host, playedAt string) Play {
	p := Play{Artist: artist, Host: host}
	p.PlayedAt, p.HasTime = ParseTimestamp(playedAt)
	return p
}
