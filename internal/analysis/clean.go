package analysis

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ademuri/kexp-tastemakers/internal/dataset"
)

// CleanOptions are the data-cleaning rules applied before host and
// ranking aggregation.
type CleanOptions struct {
	// Hosts containing Separator are multi-host rows and are dropped...
	Separator string
	// ...unless they equal HostException exactly.
	HostException string
}

// NormalizeArtist trims and lower-cases an artist name.
func NormalizeArtist(artist string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(artist))
}

// HostAllowed reports whether a host survives the multi-host filter.
func (o CleanOptions) HostAllowed(host string) bool {
	return !strings.Contains(host, o.Separator) || host == o.HostException
}

// Clean returns normalized copies of the plays whose host passes the
// filter. The input slice is not modified.
func Clean(plays []dataset.Play, opts CleanOptions) []dataset.Play {
	kept := lo.Filter(plays, func(p dataset.Play, _ int) bool {
		return opts.HostAllowed(p.Host)
	})
	return lo.Map(kept, func(p dataset.Play, _ int) dataset.Play {
		p.Artist = NormalizeArtist(p.Artist)
		return p
	})
}
