package analysis

import (
	"sort"

	"github.com/samber/lo"

	"github.com/ademuri/kexp-tastemakers/internal/dataset"
)

// TopArtists counts plays per artist exactly as written in the dataset,
// drops the sentinel and returns the n most played. Ties go to the artist
// name that sorts first.
func TopArtists(plays []dataset.Play, sentinel string, n int) []ArtistPlays {
	named := lo.Filter(plays, func(p dataset.Play, _ int) bool {
		return p.Artist != "" && p.Artist != sentinel
	})
	counts := lo.CountValuesBy(named, func(p dataset.Play) string {
		return p.Artist
	})

	artists := make([]ArtistPlays, 0, len(counts))
	for artist, count := range counts {
		artists = append(artists, ArtistPlays{Artist: artist, Plays: int64(count)})
	}
	sort.Slice(artists, func(i, j int) bool {
		if artists[i].Plays != artists[j].Plays {
			return artists[i].Plays > artists[j].Plays
		}
		return artists[i].Artist < artists[j].Artist
	})

	if len(artists) > n {
		artists = artists[:n]
	}
	for i := range artists {
		artists[i].Rank = i + 1
	}
	return artists
}
