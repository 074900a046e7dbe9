package render

import (
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
)

const (
	Title     = "KEXP Tastemakers: The DJs and Artists Shaping the Airwaves"
	SourceURL = "https://www.kaggle.com/code/eric27n/kexp-fm-play-analysis"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

type HTMLOptions struct {
	// LogoPath is an optional PNG or JPEG shown above the title.
	LogoPath string
	// RankingSize is the width of the bubble chart x axis.
	RankingSize int
}

type legendEntry struct {
	Host  string
	Color template.CSS
}

type frame struct {
	Month string
	Image template.URL
}

type page struct {
	Title       string
	SourceURL   string
	LastUpdated string
	Logo        template.URL
	Report      *analysis.Report
	BarChart    template.URL
	Legend      []legendEntry
	Frames      []frame
	LastFrame   int
}

// HTML writes the single page report.
func HTML(w io.Writer, r *analysis.Report, opts HTMLOptions) error {
	if opts.RankingSize < 1 {
		opts.RankingSize = 10
	}

	generated := r.Metadata.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	p := page{
		Title:       Title,
		SourceURL:   SourceURL,
		LastUpdated: generated.Format("2006-01-02 15:04 MST"),
		Report:      r,
	}

	if opts.LogoPath != "" {
		logo, err := dataURI(opts.LogoPath)
		if err != nil {
			return err
		}
		p.Logo = logo
	}

	hosts := make([]string, len(r.TopHosts))
	for i, h := range r.TopHosts {
		hosts[i] = h.Host
	}
	colors := HostColors(hosts)
	for _, h := range hosts {
		p.Legend = append(p.Legend, legendEntry{Host: h, Color: template.CSS(colors[h])})
	}

	bar, err := StackedBarSVG(r.BarChartRows(), hosts)
	switch {
	case errors.Is(err, errNoData):
	case err != nil:
		return err
	default:
		p.BarChart = svgURI(bar)
	}

	yMax := RankingYMax(r.MonthlyRanking)
	artistColors := ArtistColors(r.MonthlyRanking)
	for _, m := range r.MonthlyRanking {
		svg, err := RankingFrameSVG(m, yMax, artistColors, opts.RankingSize)
		if errors.Is(err, errNoData) {
			continue
		}
		if err != nil {
			return err
		}
		p.Frames = append(p.Frames, frame{Month: m.Month.String(), Image: svgURI(svg)})
	}

	p.LastFrame = len(p.Frames) - 1

	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("executing page template: %w", err)
	}
	return nil
}

func svgURI(svg []byte) template.URL {
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg))
}

func dataURI(path string) (template.URL, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading logo: %w", err)
	}
	mime := http.DetectContentType(b)
	switch mime {
	case "image/png", "image/jpeg", "image/gif":
	default:
		return "", fmt.Errorf("logo %s: unsupported image type %q", path, mime)
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)), nil
}
