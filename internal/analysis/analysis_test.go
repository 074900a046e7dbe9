package analysis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ademuri/kexp-tastemakers/internal/config"
	"github.com/ademuri/kexp-tastemakers/internal/dataset"
)

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func play(artist, host string, t time.Time) dataset.Play {
	return dataset.Play{Artist: artist, Host: host, PlayedAt: t, HasTime: true}
}

func repeat(n int, p dataset.Play) []dataset.Play {
	out := make([]dataset.Play, n)
	for i := range out {
		out[i] = p
	}
	return out
}

func TestTopArtistsExcludesSentinel(t *testing.T) {
	var plays []dataset.Play
	plays = append(plays, repeat(500, play("(Various Artists)", "Host", at(2020, 1, 1)))...)
	plays = append(plays, repeat(3, play("Wilco", "Host", at(2020, 1, 1)))...)
	plays = append(plays, repeat(2, play("Bright Eyes", "Host", at(2020, 1, 1)))...)

	got := TopArtists(plays, "(Various Artists)", 10)
	want := []ArtistPlays{
		{Rank: 1, Artist: "Wilco", Plays: 3},
		{Rank: 2, Artist: "Bright Eyes", Plays: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopArtists = %v, want %v", got, want)
	}
}

func TestTopArtistsLimitAndTieBreak(t *testing.T) {
	var plays []dataset.Play
	for i := 0; i < 12; i++ {
		plays = append(plays, play(fmt.Sprintf("artist %02d", i), "Host", at(2020, 1, 1)))
	}
	plays = append(plays, play("artist 11", "Host", at(2020, 1, 1)))

	got := TopArtists(plays, "(Various Artists)", 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 artists, got %d", len(got))
	}
	if got[0].Artist != "artist 11" || got[0].Plays != 2 {
		t.Errorf("expected artist 11 first, got %v", got[0])
	}
	if got[1].Artist != "artist 00" || got[9].Artist != "artist 08" {
		t.Errorf("ties should be broken by name, got %v", got)
	}
}

func TestTopArtistsCountsRawNames(t *testing.T) {
	plays := []dataset.Play{
		play("Wilco", "Host", at(2020, 1, 1)),
		play("wilco ", "Host", at(2020, 1, 1)),
		play("", "Host", at(2020, 1, 1)),
	}
	got := TopArtists(plays, "(Various Artists)", 10)
	if len(got) != 2 {
		t.Errorf("expected raw names to be counted separately and blanks dropped, got %v", got)
	}
}

func TestHostFilter(t *testing.T) {
	opts := CleanOptions{Separator: ",", HostException: "Larry Mizell, Jr."}
	tests := []struct {
		host string
		want bool
	}{
		{"Larry Mizell, Jr.", true},
		{"Jane, Doe", false},
		{"Cheryl Waters", true},
		{"", true},
	}
	for _, tt := range tests {
		if got := opts.HostAllowed(tt.host); got != tt.want {
			t.Errorf("HostAllowed(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestCleanNormalizesWithoutMutating(t *testing.T) {
	plays := []dataset.Play{
		play("  The Beatles ", "Cheryl Waters", at(2020, 1, 1)),
		play("Wilco", "Jane, Doe", at(2020, 1, 1)),
	}
	clean := Clean(plays, CleanOptions{Separator: ",", HostException: "Larry Mizell, Jr."})
	if len(clean) != 1 {
		t.Fatalf("expected 1 clean play, got %d", len(clean))
	}
	if clean[0].Artist != "the beatles" {
		t.Errorf("expected normalized artist, got %q", clean[0].Artist)
	}
	if plays[0].Artist != "  The Beatles " {
		t.Errorf("input was modified: %q", plays[0].Artist)
	}
}

func TestHostDiscoveries(t *testing.T) {
	clean := []dataset.Play{
		play("a", "Larry Mizell, Jr.", at(2019, 1, 1)),
		play("a", "Larry Mizell, Jr.", at(2020, 1, 1)),
		play("b", "Larry Mizell, Jr.", at(2020, 1, 1)),
		play("c", "Larry Mizell, Jr.", at(2020, 1, 1)),
		play("a", "Cheryl Waters", at(2020, 1, 1)),
		play("b", "Cheryl Waters", at(2020, 1, 1)),
		play("a", "Abbie", at(2020, 1, 1)),
		play("b", "Abbie", at(2020, 1, 1)),
		play("z", "", at(2020, 1, 1)),
	}

	got := HostDiscoveries(clean, 2)
	want := []HostDiscovery{
		{Rank: 1, Host: "Larry Mizell, Jr.", NewArtists: 3},
		{Rank: 2, Host: "Abbie", NewArtists: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HostDiscoveries = %v, want %v", got, want)
	}
}

func TestYearlyDiscoveries(t *testing.T) {
	clean := []dataset.Play{
		play("a", "Host A", at(2019, 1, 1)),
		play("a", "Host A", at(2019, 6, 1)),
		play("a", "Host A", at(2020, 1, 1)),
		play("b", "Host A", at(2020, 1, 1)),
		play("a", "Host B", at(2020, 1, 1)),
		play("a", "Host C", at(2020, 1, 1)),
		{Artist: "c", Host: "Host A"},
	}
	hosts := []HostDiscovery{{Host: "Host A"}, {Host: "Host B"}}

	got := YearlyDiscoveries(clean, hosts)
	want := []YearlyDiscovery{
		{Year: 2019, Host: "Host A", NewArtists: 1},
		{Year: 2020, Host: "Host A", NewArtists: 2},
		{Year: 2020, Host: "Host B", NewArtists: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("YearlyDiscoveries = %v, want %v", got, want)
	}
}

func TestGenerateScenario(t *testing.T) {
	var plays []dataset.Play
	plays = append(plays, repeat(500, play("(Various Artists)", "Cheryl Waters", at(2020, 1, 3)))...)
	plays = append(plays, repeat(2, play("Wilco", "Larry Mizell, Jr.", at(2020, 1, 3)))...)
	plays = append(plays, play("Bright Eyes", "Jane, Doe", at(2020, 1, 3)))
	plays = append(plays, play("Bright Eyes", "Cheryl Waters", at(2020, 2, 3)))
	plays = append(plays, dataset.Play{Artist: "Undated", Host: "Cheryl Waters"})

	report, err := Generate(plays, config.Default())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	for _, a := range report.TopArtists {
		if a.Artist == "(Various Artists)" {
			t.Errorf("sentinel found in top artists: %v", report.TopArtists)
		}
	}
	for _, h := range report.TopHosts {
		if h.Host == "Jane, Doe" {
			t.Errorf("multi-host row found in top hosts: %v", report.TopHosts)
		}
	}
	if report.TopHosts[0].Host != "Cheryl Waters" || report.TopHosts[0].NewArtists != 3 {
		t.Errorf("unexpected top host: %v", report.TopHosts)
	}

	if len(report.MonthlyRanking) != 2 {
		t.Fatalf("expected 2 months of ranking, got %v", report.MonthlyRanking)
	}
	for _, m := range report.MonthlyRanking {
		for _, e := range m.Entries {
			if strings.Contains(e.Artist, "various") {
				t.Errorf("sentinel found in ranking for %s: %v", m.Month, m.Entries)
			}
		}
	}
	feb := report.MonthlyRanking[1]
	if feb.Entries[0].Artist != "wilco" || feb.Entries[1].Artist != "bright eyes" {
		t.Errorf("unexpected February ranking: %v", feb.Entries)
	}

	if report.Metadata.UndatedRows != 1 || report.Metadata.SampledRows != len(plays) {
		t.Errorf("unexpected metadata: %+v", report.Metadata)
	}
	if report.Metadata.CleanRows != len(plays)-1 {
		t.Errorf("expected one row dropped by the host filter, got %+v", report.Metadata)
	}
	if report.Metadata.FirstMonth.String() != "2020-01" || report.Metadata.LastMonth.String() != "2020-02" {
		t.Errorf("unexpected month span: %v..%v", report.Metadata.FirstMonth, report.Metadata.LastMonth)
	}
}

func TestGenerateRanksWithoutGrid(t *testing.T) {
	var plays []dataset.Play
	for a := 0; a < 40; a++ {
		artist := fmt.Sprintf("Artist %02d", a)
		// Each artist plays in one month of a two-year span, leaving most
		// (month, artist) cells empty and March 2019 with no plays at all.
		month := time.Month(a%12 + 1)
		if month == time.March {
			month = time.April
		}
		plays = append(plays, repeat(a%7+1, play(artist, "Cheryl Waters", at(2019+a%2, month, 10)))...)
	}

	cfg := config.Default()
	report, err := Generate(plays, cfg)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	clean := Clean(plays, CleanOptions{Separator: cfg.HostSeparator, HostException: cfg.HostException})
	want := RankCumulative(FillMonthGrid(MonthlyPlayCounts(clean, cfg.SentinelArtist)), cfg.RankingSize)
	if !reflect.DeepEqual(report.MonthlyRanking, want) {
		t.Errorf("ranking differs from the full grid ranking:\n%v\nwant\n%v", report.MonthlyRanking, want)
	}
	if len(report.MonthlyRanking) != 24 {
		t.Errorf("expected 24 months from 2019-01 to 2020-12, got %d", len(report.MonthlyRanking))
	}
}

func TestGenerateEmpty(t *testing.T) {
	_, err := Generate(nil, config.Default())
	if !errors.Is(err, dataset.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

const runCSV = `DateTime,Artist,Host
2020-01-05T10:00:00Z,Wilco,Cheryl Waters
2020-01-06T10:00:00Z,Wilco,Cheryl Waters
2020-02-05T10:00:00Z,Bright Eyes,John Richards
2020-03-05T10:00:00Z,Khruangbin,"Larry Mizell, Jr."
2020-03-06T10:00:00Z,Khruangbin,"Jane, Doe"
2021-04-05T10:00:00Z,Sleater-Kinney,Kevin Cole
not-a-date,Bikini Kill,Kevin Cole
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "KEXP_Playlist.csv")
	if err := os.WriteFile(path, []byte(runCSV), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.DatasetPath = writeDataset(t)
	cfg.SampleSize = 4

	fixed := func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	a, err := Run(cfg, RunOptions{Now: fixed})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	b, err := Run(cfg, RunOptions{Now: fixed})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different reports:\n%+v\n%+v", a, b)
	}
	if a.Metadata.TotalRows != 7 || a.Metadata.SampledRows != 4 {
		t.Errorf("unexpected metadata: %+v", a.Metadata)
	}
}

func TestRunDateWindow(t *testing.T) {
	cfg := config.Default()
	cfg.DatasetPath = writeDataset(t)

	report, err := Run(cfg, RunOptions{
		From: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(report.TopArtists) != 1 || report.TopArtists[0].Artist != "Sleater-Kinney" {
		t.Errorf("unexpected top artists: %v", report.TopArtists)
	}

	_, err = Run(cfg, RunOptions{From: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)})
	if !errors.Is(err, dataset.ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset for an empty window, got %v", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TopN = 0
	_, err := Run(cfg, RunOptions{})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestChartRows(t *testing.T) {
	cfg := config.Default()
	cfg.DatasetPath = writeDataset(t)
	cfg.SampleSize = 0

	report, err := Run(cfg, RunOptions{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if got := report.Years(); !reflect.DeepEqual(got, []int{2020, 2021}) {
		t.Errorf("Years() = %v", got)
	}
	if len(report.BarChartRows()) != len(report.YearlyDiscoveries) {
		t.Errorf("bar chart rows should match the yearly table")
	}

	rows := report.ScatterRows()
	var n int
	for _, m := range report.MonthlyRanking {
		n += len(m.Entries)
	}
	if len(rows) != n {
		t.Fatalf("expected %d scatter rows, got %d", n, len(rows))
	}
	for _, r := range rows {
		if r.PlaySize != r.TotalPlaysToDate {
			t.Errorf("bubble size should equal the cumulative count: %+v", r)
		}
	}
}
