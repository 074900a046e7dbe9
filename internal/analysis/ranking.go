package analysis

import (
	"sort"

	"github.com/samber/lo"

	"github.com/ademuri/kexp-tastemakers/internal/dataset"
)

// MonthlyPlayCounts counts dated plays per (month, artist), skipping the
// sentinel artist. clean must already hold normalized artist names, as
// returned by Clean. The result is sparse and ordered by month then artist.
func MonthlyPlayCounts(clean []dataset.Play, sentinel string) []MonthlyPlays {
	sentinel = NormalizeArtist(sentinel)

	type key struct {
		month  Month
		artist string
	}
	counts := make(map[key]int64)
	for _, p := range clean {
		if !p.HasTime || p.Artist == "" || p.Artist == sentinel {
			continue
		}
		counts[key{MonthOf(p.PlayedAt), p.Artist}]++
	}

	out := make([]MonthlyPlays, 0, len(counts))
	for k, n := range counts {
		out = append(out, MonthlyPlays{Month: k.month, Artist: k.artist, Plays: n})
	}
	sortMonthlyPlays(out)
	return out
}

// FillMonthGrid materializes every month in the inclusive span of counts
// crossed with every artist in counts, filling absent cells with zero. Its
// size is months times artists; RankCumulative does not need it.
func FillMonthGrid(counts []MonthlyPlays) []MonthlyPlays {
	if len(counts) == 0 {
		return nil
	}

	first, last := monthSpan(counts)
	cells := make(map[Month]map[string]int64)
	artistSet := make(map[string]bool)
	for _, c := range counts {
		if cells[c.Month] == nil {
			cells[c.Month] = make(map[string]int64)
		}
		cells[c.Month][c.Artist] += c.Plays
		artistSet[c.Artist] = true
	}
	artists := lo.Keys(artistSet)
	sort.Strings(artists)

	var grid []MonthlyPlays
	for m := first; !last.Before(m); m = m.Next() {
		for _, a := range artists {
			grid = append(grid, MonthlyPlays{Month: m, Artist: a, Plays: cells[m][a]})
		}
	}
	return grid
}

// RankCumulative ranks artists by all-time plays through each month of the
// span of counts, in one forward pass. Each month gets the top limit
// artists with a nonzero total, ranked 1..k by descending total; ties go
// to the artist name that sorts first. Months with no plays still get a
// batch, carried from the running totals. Missing (month, artist) cells
// count as zero, so the input may be sparse or a full grid.
func RankCumulative(counts []MonthlyPlays, limit int) []MonthRanking {
	if len(counts) == 0 || limit < 1 {
		return nil
	}

	first, last := monthSpan(counts)
	byMonth := make(map[Month][]MonthlyPlays)
	for _, c := range counts {
		byMonth[c.Month] = append(byMonth[c.Month], c)
	}

	totals := make(map[string]int64)
	var rankings []MonthRanking
	for m := first; !last.Before(m); m = m.Next() {
		for _, c := range byMonth[m] {
			totals[c.Artist] += c.Plays
		}
		rankings = append(rankings, MonthRanking{Month: m, Entries: topTotals(totals, limit)})
	}
	return rankings
}

func topTotals(totals map[string]int64, limit int) []RankingEntry {
	entries := make([]RankingEntry, 0, len(totals))
	for artist, total := range totals {
		if total > 0 {
			entries = append(entries, RankingEntry{Artist: artist, TotalPlaysToDate: total})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPlaysToDate != entries[j].TotalPlaysToDate {
			return entries[i].TotalPlaysToDate > entries[j].TotalPlaysToDate
		}
		return entries[i].Artist < entries[j].Artist
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func monthSpan(counts []MonthlyPlays) (first, last Month) {
	first, last = counts[0].Month, counts[0].Month
	for _, c := range counts[1:] {
		if c.Month.Before(first) {
			first = c.Month
		}
		if last.Before(c.Month) {
			last = c.Month
		}
	}
	return first, last
}

func sortMonthlyPlays(counts []MonthlyPlays) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Month != counts[j].Month {
			return counts[i].Month.Before(counts[j].Month)
		}
		return counts[i].Artist < counts[j].Artist
	})
}
