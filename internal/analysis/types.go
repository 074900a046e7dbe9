package analysis

import (
	"fmt"
	"time"
)

// Report is everything the renderers need. It is rebuilt on every run.
type Report struct {
	Metadata          ReportMetadata    `yaml:"metadata"`
	TopArtists        []ArtistPlays     `yaml:"top_artists"`
	TopHosts          []HostDiscovery   `yaml:"top_hosts"`
	YearlyDiscoveries []YearlyDiscovery `yaml:"yearly_discoveries"`
	MonthlyRanking    []MonthRanking    `yaml:"monthly_ranking"`
}

type ReportMetadata struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Dataset     string    `yaml:"dataset"`
	TotalRows   int       `yaml:"total_rows"`
	SampledRows int       `yaml:"sampled_rows"`
	Seed        int64     `yaml:"seed"`
	// Rows left after the host filter.
	CleanRows int `yaml:"clean_rows"`
	// Rows whose timestamp could not be parsed.
	UndatedRows int    `yaml:"undated_rows"`
	FirstMonth  *Month `yaml:"first_month,omitempty"`
	LastMonth   *Month `yaml:"last_month,omitempty"`
}

type ArtistPlays struct {
	Rank   int    `yaml:"rank"`
	Artist string `yaml:"artist"`
	Plays  int64  `yaml:"plays"`
}

// HostDiscovery counts the distinct artists a host has ever played.
type HostDiscovery struct {
	Rank       int    `yaml:"rank"`
	Host       string `yaml:"host"`
	NewArtists int    `yaml:"new_artists"`
}

// YearlyDiscovery counts the distinct artists a host played in one year.
type YearlyDiscovery struct {
	Year       int    `yaml:"year"`
	Host       string `yaml:"host"`
	NewArtists int    `yaml:"new_artists"`
}

// Month is a calendar month. The zero value is not a valid month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// MonthlyPlays is one cell of the month × artist grid.
type MonthlyPlays struct {
	Month  Month
	Artist string
	Plays  int64
}

type RankingEntry struct {
	Artist           string `yaml:"artist"`
	TotalPlaysToDate int64  `yaml:"total_plays_to_date"`
	Rank             int    `yaml:"rank"`
}

// MonthRanking is the top artists by all-time plays through Month.
type MonthRanking struct {
	Month   Month          `yaml:"month"`
	Entries []RankingEntry `yaml:"entries"`
}

// ScatterRow is one point of the animated ranking chart.
type ScatterRow struct {
	Month            Month
	Artist           string
	Rank             int
	TotalPlaysToDate int64
	PlaySize         int64
}

// BarChartRows is the input of the stacked yearly chart: one row per
// (year, host), ordered by year then host.
func (r *Report) BarChartRows() []YearlyDiscovery {
	return r.YearlyDiscoveries
}

// ScatterRows flattens the monthly ranking into chart points.
func (r *Report) ScatterRows() []ScatterRow {
	var rows []ScatterRow
	for _, m := range r.MonthlyRanking {
		for _, e := range m.Entries {
			rows = append(rows, ScatterRow{
				Month:            m.Month,
				Artist:           e.Artist,
				Rank:             e.Rank,
				TotalPlaysToDate: e.TotalPlaysToDate,
				PlaySize:         e.TotalPlaysToDate,
			})
		}
	}
	return rows
}

// Years returns the distinct years of the yearly table, ascending.
func (r *Report) Years() []int {
	var years []int
	for _, y := range r.YearlyDiscoveries {
		if len(years) == 0 || years[len(years)-1] != y.Year {
			years = append(years, y.Year)
		}
	}
	return years
}
