package analysis

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/ademuri/kexp-tastemakers/internal/dataset"
)

var (
	jan = Month{2020, time.January}
	feb = Month{2020, time.February}
	mar = Month{2020, time.March}
)

func TestRankCumulativeScenario(t *testing.T) {
	counts := []MonthlyPlays{
		{Month: jan, Artist: "A", Plays: 2},
		{Month: jan, Artist: "B", Plays: 1},
		{Month: feb, Artist: "A", Plays: 0},
		{Month: feb, Artist: "B", Plays: 3},
	}

	got := RankCumulative(counts, 10)
	want := []MonthRanking{
		{Month: jan, Entries: []RankingEntry{
			{Artist: "A", TotalPlaysToDate: 2, Rank: 1},
			{Artist: "B", TotalPlaysToDate: 1, Rank: 2},
		}},
		{Month: feb, Entries: []RankingEntry{
			{Artist: "B", TotalPlaysToDate: 4, Rank: 1},
			{Artist: "A", TotalPlaysToDate: 2, Rank: 2},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankCumulative =\n%v\nwant\n%v", got, want)
	}
}

func TestRankCumulativeEmpty(t *testing.T) {
	if got := RankCumulative(nil, 10); got != nil {
		t.Errorf("expected nil ranking for empty input, got %v", got)
	}
}

func TestRankCumulativeTieBreakByName(t *testing.T) {
	counts := []MonthlyPlays{
		{Month: jan, Artist: "zebra", Plays: 1},
		{Month: jan, Artist: "aardvark", Plays: 1},
	}
	got := RankCumulative(counts, 10)
	if got[0].Entries[0].Artist != "aardvark" || got[0].Entries[1].Artist != "zebra" {
		t.Errorf("expected ties broken by name, got %v", got[0].Entries)
	}
}

func TestRankCumulativeFillsGapMonths(t *testing.T) {
	counts := []MonthlyPlays{
		{Month: Month{2019, time.December}, Artist: "A", Plays: 1},
		{Month: feb, Artist: "B", Plays: 5},
	}
	got := RankCumulative(counts, 10)
	if len(got) != 3 {
		t.Fatalf("expected Dec, Jan, Feb, got %v", got)
	}
	if got[1].Month != jan {
		t.Errorf("expected January in the middle, got %s", got[1].Month)
	}
	if !reflect.DeepEqual(got[1].Entries, got[0].Entries) {
		t.Errorf("a month without plays should carry the previous totals: %v vs %v", got[1].Entries, got[0].Entries)
	}
	if got[2].Entries[0].Artist != "B" || got[2].Entries[1].TotalPlaysToDate != 1 {
		t.Errorf("unexpected February ranking: %v", got[2].Entries)
	}
}

func TestRankCumulativeSkipsZeroTotals(t *testing.T) {
	grid := FillMonthGrid([]MonthlyPlays{
		{Month: jan, Artist: "A", Plays: 1},
		{Month: feb, Artist: "B", Plays: 1},
	})
	got := RankCumulative(grid, 10)
	if len(got[0].Entries) != 1 || got[0].Entries[0].Artist != "A" {
		t.Errorf("artists without plays yet should not be ranked: %v", got[0].Entries)
	}
	if len(got[1].Entries) != 2 {
		t.Errorf("expected both artists ranked in February: %v", got[1].Entries)
	}
}

func TestFillMonthGrid(t *testing.T) {
	grid := FillMonthGrid([]MonthlyPlays{
		{Month: jan, Artist: "B", Plays: 2},
		{Month: mar, Artist: "A", Plays: 1},
	})
	want := []MonthlyPlays{
		{Month: jan, Artist: "A", Plays: 0},
		{Month: jan, Artist: "B", Plays: 2},
		{Month: feb, Artist: "A", Plays: 0},
		{Month: feb, Artist: "B", Plays: 0},
		{Month: mar, Artist: "A", Plays: 1},
		{Month: mar, Artist: "B", Plays: 0},
	}
	if !reflect.DeepEqual(grid, want) {
		t.Errorf("FillMonthGrid =\n%v\nwant\n%v", grid, want)
	}
}

func TestMonthlyPlayCounts(t *testing.T) {
	clean := []dataset.Play{
		play("wilco", "", at(2020, 1, 1)),
		play("wilco", "", at(2020, 1, 31)),
		play("wilco", "", at(2020, 2, 1)),
		play("(various artists)", "", at(2020, 2, 1)),
		{Artist: "wilco"},
	}
	got := MonthlyPlayCounts(clean, "(Various Artists)")
	want := []MonthlyPlays{
		{Month: jan, Artist: "wilco", Plays: 2},
		{Month: feb, Artist: "wilco", Plays: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MonthlyPlayCounts = %v, want %v", got, want)
	}
}

func TestMonthlyPlayCountsNormalizesSentinelOnce(t *testing.T) {
	raw := []dataset.Play{
		play("(Various Artists)", "Cheryl Waters", at(2020, 1, 1)),
		play(" (VARIOUS ARTISTS)", "Cheryl Waters", at(2020, 1, 2)),
		play("Wilco", "Cheryl Waters", at(2020, 1, 3)),
	}
	clean := Clean(raw, CleanOptions{Separator: ","})
	got := MonthlyPlayCounts(clean, " (VARIOUS Artists) ")
	want := []MonthlyPlays{{Month: jan, Artist: "wilco", Plays: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MonthlyPlayCounts = %v, want %v", got, want)
	}
}

func randomCounts(r *rand.Rand) []MonthlyPlays {
	var counts []MonthlyPlays
	m := Month{2018, time.November}
	for i := 0; i < 14; i++ {
		for a := 0; a < 25; a++ {
			if r.Intn(3) == 0 {
				counts = append(counts, MonthlyPlays{Month: m, Artist: fmt.Sprintf("artist %02d", a), Plays: int64(r.Intn(5))})
			}
		}
		m = m.Next()
	}
	return counts
}

func TestRankCumulativeProperties(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 20; iter++ {
		counts := randomCounts(r)
		rankings := RankCumulative(FillMonthGrid(counts), 10)

		seen := make(map[string]int64)
		nonzero := make(map[string]bool)
		byMonth := make(map[Month][]MonthlyPlays)
		for _, c := range counts {
			byMonth[c.Month] = append(byMonth[c.Month], c)
		}

		for i, m := range rankings {
			if i > 0 && !rankings[i-1].Month.Before(m.Month) {
				t.Fatalf("months out of order: %s then %s", rankings[i-1].Month, m.Month)
			}
			for _, c := range byMonth[m.Month] {
				if c.Plays > 0 {
					nonzero[c.Artist] = true
				}
			}

			wantLen := len(nonzero)
			if wantLen > 10 {
				wantLen = 10
			}
			if len(m.Entries) != wantLen {
				t.Fatalf("%s: expected %d entries, got %d", m.Month, wantLen, len(m.Entries))
			}

			for j, e := range m.Entries {
				if e.Rank != j+1 {
					t.Fatalf("%s: ranks not dense: %v", m.Month, m.Entries)
				}
				if j > 0 && e.TotalPlaysToDate > m.Entries[j-1].TotalPlaysToDate {
					t.Fatalf("%s: entries not sorted: %v", m.Month, m.Entries)
				}
				if prev, ok := seen[e.Artist]; ok && e.TotalPlaysToDate < prev {
					t.Fatalf("%s: %s went from %d to %d", m.Month, e.Artist, prev, e.TotalPlaysToDate)
				}
				seen[e.Artist] = e.TotalPlaysToDate
			}
		}

		// The engine accepts sparse input with the same result.
		if sparse := RankCumulative(counts, 10); !reflect.DeepEqual(sparse, rankings) {
			t.Fatalf("sparse and filled inputs disagree")
		}
	}
}

func TestRankCumulativeMatchesRescan(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	counts := randomCounts(r)
	rankings := RankCumulative(counts, 10)

	for _, m := range rankings {
		totals := make(map[string]int64)
		for _, c := range counts {
			if !m.Month.Before(c.Month) {
				totals[c.Artist] += c.Plays
			}
		}
		want := topTotals(totals, 10)
		if !reflect.DeepEqual(m.Entries, want) {
			t.Fatalf("%s: forward pass %v, rescan %v", m.Month, m.Entries, want)
		}
	}
}

func TestMonth(t *testing.T) {
	dec := Month{2019, time.December}
	if dec.Next() != jan {
		t.Errorf("December should roll over to January, got %v", dec.Next())
	}
	if !dec.Before(jan) || jan.Before(dec) || jan.Before(jan) {
		t.Errorf("Before is wrong")
	}
	if jan.String() != "2020-01" {
		t.Errorf("String() = %q", jan.String())
	}
	if MonthOf(time.Date(2020, 2, 29, 23, 59, 0, 0, time.UTC)) != feb {
		t.Errorf("MonthOf is wrong")
	}
	if !jan.Start().Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start() = %v", jan.Start())
	}
}
