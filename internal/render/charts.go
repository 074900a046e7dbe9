package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
)

// errNoData is returned when a chart has nothing to draw.
var errNoData = errors.New("no data to chart")

// Viridis, sampled at ten evenly spaced stops.
var viridis = []string{
	"440154", "482878", "3e4989", "31688e", "26828e",
	"1f9e89", "35b779", "6ece58", "b5de2b", "fde725",
}

// Artist bubbles use a qualitative palette so neighbours stay distinct.
var bubblePalette = []string{
	"636efa", "ef553b", "00cc96", "ab63fa", "ffa15a",
	"19d3f3", "ff6692", "b6e880", "ff97ff", "fecb52",
}

func paletteColor(palette []string, i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// HostColors assigns each host a Viridis color in the given order.
func HostColors(hosts []string) map[string]string {
	colors := make(map[string]string, len(hosts))
	for i, h := range hosts {
		colors[h] = "#" + viridis[i%len(viridis)]
	}
	return colors
}

// StackedBarSVG draws one bar per year, stacked by host in hosts order.
// go-chart scales every stacked bar to full height, so each bar is topped
// with a transparent filler up to the tallest year and the percentage axis
// is replaced by a count axis. Segment labels carry the counts.
func StackedBarSVG(rows []analysis.YearlyDiscovery, hosts []string) ([]byte, error) {
	hostIndex := make(map[string]int, len(hosts))
	for i, h := range hosts {
		hostIndex[h] = i
	}

	type year struct {
		name   string
		total  float64
		values []chart.Value
	}
	var years []*year
	var tallest float64
	for _, row := range rows {
		name := strconv.Itoa(row.Year)
		if len(years) == 0 || years[len(years)-1].name != name {
			years = append(years, &year{name: name})
		}
		i, ok := hostIndex[row.Host]
		if !ok || row.NewArtists == 0 {
			continue
		}
		y := years[len(years)-1]
		y.total += float64(row.NewArtists)
		y.values = append(y.values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", row.Host, row.NewArtists),
			Value: float64(row.NewArtists),
			Style: chart.Style{
				FillColor:   paletteColor(viridis, i),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
				FontSize:    7,
				FontColor:   drawing.ColorWhite,
			},
		})
		if y.total > tallest {
			tallest = y.total
		}
	}
	if tallest == 0 {
		return nil, errNoData
	}

	bars := make([]chart.StackedBar, 0, len(years))
	for _, y := range years {
		filler := chart.Value{
			Value: tallest - y.total,
			Style: chart.Style{
				FillColor:   drawing.ColorTransparent,
				StrokeColor: drawing.ColorTransparent,
			},
		}
		if y.total == 0 {
			// An empty year still needs a slot on the x axis.
			filler.Value = tallest
		}
		bars = append(bars, chart.StackedBar{
			Name:   y.name,
			Values: append([]chart.Value{filler}, y.values...),
		})
	}

	graph := chart.StackedBarChart{
		Title:      "Number of New Artists by Year",
		Width:      1200,
		Height:     500,
		BarSpacing: 20,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.Style{FontSize: 10},
		YAxis:      chart.Style{Hidden: true},
		Bars:       bars,
		Elements:   []chart.Renderable{countAxis(tallest)},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("rendering bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// countTicks returns at most six whole-number ticks from 0 up to tallest.
func countTicks(tallest float64) []float64 {
	return chart.LinearRangeWithStep(0, tallest, math.Max(1, math.Ceil(tallest/5)))
}

// countAxis draws a count scale along the right edge of the bars. Every bar
// is padded to tallest, so a height of tallest is the top of the canvas.
func countAxis(tallest float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		style := chart.Style{
			StrokeColor: chart.DefaultAxisColor,
			StrokeWidth: 1,
			FontSize:    chart.DefaultAxisFontSize,
			FontColor:   chart.DefaultAxisColor,
		}.InheritFrom(defaults)

		style.GetStrokeOptions().WriteToRenderer(r)
		r.MoveTo(box.Right, box.Top)
		r.LineTo(box.Right, box.Bottom)
		r.Stroke()

		labelRight := box.Right
		for _, t := range countTicks(tallest) {
			ty := box.Bottom - int(t/tallest*float64(box.Height()))
			style.GetStrokeOptions().WriteToRenderer(r)
			r.MoveTo(box.Right, ty)
			r.LineTo(box.Right+chart.DefaultHorizontalTickWidth, ty)
			r.Stroke()

			label := strconv.FormatFloat(t, 'f', 0, 64)
			tb := chart.Draw.MeasureText(r, label, style)
			x := box.Right + chart.DefaultYAxisMargin
			chart.Draw.Text(r, label, x, ty+(tb.Height()>>1), style)
			labelRight = max(labelRight, x+tb.Width())
		}

		name := "Number of New Artists"
		tb := chart.Draw.MeasureText(r, name, style)
		chart.Draw.Text(r, name, labelRight+chart.DefaultYAxisMargin, box.Top+(box.Height()>>1)+(tb.Height()>>1), style)
	}
}

// RankingFrameSVG draws one month of the animated ranking: x is rank, y
// and bubble size are cumulative plays. colors maps artist to a palette
// index so an artist keeps its color across frames.
func RankingFrameSVG(m analysis.MonthRanking, yMax float64, colors map[string]int, size int) ([]byte, error) {
	if len(m.Entries) == 0 {
		return nil, errNoData
	}

	xs := make([]float64, len(m.Entries))
	ys := make([]float64, len(m.Entries))
	annotations := make([]chart.Value2, len(m.Entries))
	for i, e := range m.Entries {
		xs[i] = float64(e.Rank)
		ys[i] = float64(e.TotalPlaysToDate)
		annotations[i] = chart.Value2{XValue: xs[i], YValue: ys[i], Label: DisplayArtist(e.Artist)}
	}

	const maxBubble = 32.0
	bubbles := chart.ContinuousSeries{
		Name:    m.Month.String(),
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    4,
			DotWidthProvider: func(_, _ chart.Range, index int, _, y float64) float64 {
				if yMax <= 0 {
					return 4
				}
				return 4 + maxBubble*y/yMax
			},
			DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
				return paletteColor(bubblePalette, colors[m.Entries[index].Artist]).WithAlpha(190)
			},
		},
	}

	ticks := make([]chart.Tick, 0, size)
	for r := 1; r <= size; r++ {
		ticks = append(ticks, chart.Tick{Value: float64(r), Label: strconv.Itoa(r)})
	}

	graph := chart.Chart{
		Title:  "Top Artists: " + m.Month.String(),
		Width:  1200,
		Height: 800,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 40, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Rank",
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(size) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Cumulative Plays by Artist",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: []chart.Series{
			bubbles,
			chart.AnnotationSeries{Annotations: annotations},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("rendering ranking for %s: %w", m.Month, err)
	}
	return buf.Bytes(), nil
}

// RankingYMax is the y axis ceiling shared by every frame.
func RankingYMax(rankings []analysis.MonthRanking) float64 {
	var max int64
	for _, m := range rankings {
		for _, e := range m.Entries {
			if e.TotalPlaysToDate > max {
				max = e.TotalPlaysToDate
			}
		}
	}
	return float64(max + 100)
}

// ArtistColors gives every ranked artist a stable palette index, in order
// of first appearance.
func ArtistColors(rankings []analysis.MonthRanking) map[string]int {
	colors := make(map[string]int)
	for _, m := range rankings {
		for _, e := range m.Entries {
			if _, ok := colors[e.Artist]; !ok {
				colors[e.Artist] = len(colors)
			}
		}
	}
	return colors
}
