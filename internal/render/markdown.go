package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
)

// Markdown writes the report as a markdown document. Charts are replaced
// by tables, plus a mermaid pie chart of the top hosts.
func Markdown(w io.Writer, r *analysis.Report) error {
	md := markdown.NewMarkdown(w)

	md.H1(Title)
	md.PlainText("")
	md.PlainTextf("Source: [KEXP FM Play Analysis](%s)", SourceURL)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Item", "Value"},
		Rows: [][]string{
			{"Dataset", r.Metadata.Dataset},
			{"Plays", strconv.Itoa(r.Metadata.TotalRows)},
			{"Sampled", strconv.Itoa(r.Metadata.SampledRows)},
			{"Seed", strconv.FormatInt(r.Metadata.Seed, 10)},
			{"Last Updated", r.Metadata.GeneratedAt.Format("2006-01-02 15:04 MST")},
		},
	})
	md.PlainText("")

	writeTopArtists(md, r)
	writeTopHosts(md, r)
	writeYearly(md, r)
	writeRanking(md, r)

	return md.Build()
}

func writeTopArtists(md *markdown.Markdown, r *analysis.Report) {
	md.H2("Top Artists")
	md.PlainText("")
	rows := make([][]string, len(r.TopArtists))
	for i, a := range r.TopArtists {
		rows[i] = []string{strconv.Itoa(a.Rank), a.Artist, strconv.FormatInt(a.Plays, 10)}
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Artist", "Plays"}, Rows: rows})
	md.PlainText("")
}

func writeTopHosts(md *markdown.Markdown, r *analysis.Report) {
	md.H2("Top Hosts by New Artists Introduced")
	md.PlainText("")
	if len(r.TopHosts) == 0 {
		md.PlainText("No hosts left after filtering.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(r.TopHosts))
	chart := piechart.NewPieChart(io.Discard, piechart.WithTitle("New Artists by Host"), piechart.WithShowData(true))
	for i, h := range r.TopHosts {
		rows[i] = []string{strconv.Itoa(h.Rank), h.Host, strconv.Itoa(h.NewArtists)}
		chart.LabelAndIntValue(h.Host, uint64(h.NewArtists))
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Host", "New Artists"}, Rows: rows})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeYearly(md *markdown.Markdown, r *analysis.Report) {
	md.H2("New Artists by Year")
	md.PlainText("")
	years := r.Years()
	if len(years) == 0 || len(r.TopHosts) == 0 {
		md.PlainText("No dated plays for the top hosts.")
		md.PlainText("")
		return
	}

	counts := make(map[int]map[string]int)
	for _, y := range r.BarChartRows() {
		if counts[y.Year] == nil {
			counts[y.Year] = make(map[string]int)
		}
		counts[y.Year][y.Host] = y.NewArtists
	}

	header := []string{"Host"}
	for _, y := range years {
		header = append(header, strconv.Itoa(y))
	}
	rows := make([][]string, 0, len(r.TopHosts))
	for _, h := range r.TopHosts {
		row := []string{h.Host}
		for _, y := range years {
			row = append(row, strconv.Itoa(counts[y][h.Host]))
		}
		rows = append(rows, row)
	}
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

func writeRanking(md *markdown.Markdown, r *analysis.Report) {
	md.H2("Top Artists by Cumulative Plays")
	md.PlainText("")
	n := len(r.MonthlyRanking)
	if n == 0 {
		md.PlainText("No dated plays to rank.")
		md.PlainText("")
		return
	}

	md.PlainTextf("Ranking after %s (first month %s).", r.MonthlyRanking[n-1].Month, r.MonthlyRanking[0].Month)
	md.PlainText("")
	last := r.MonthlyRanking[n-1]
	rows := make([][]string, len(last.Entries))
	for i, e := range last.Entries {
		rows[i] = []string{strconv.Itoa(e.Rank), DisplayArtist(e.Artist), strconv.FormatInt(e.TotalPlaysToDate, 10)}
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Artist", "Plays to Date"}, Rows: rows})
	md.PlainText("")

	leaders := make([]string, 0, n)
	for _, m := range r.MonthlyRanking {
		if len(m.Entries) == 0 {
			continue
		}
		top := m.Entries[0]
		leaders = append(leaders, fmt.Sprintf("%s: %s (%d)", m.Month, DisplayArtist(top.Artist), top.TotalPlaysToDate))
	}
	md.H2("Monthly Leaders")
	md.PlainText("")
	md.BulletList(leaders...)
	md.PlainText("")
}
