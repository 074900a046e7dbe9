package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayArtist title-cases a normalized artist name for display.
// Names that already carry upper case letters are left alone.
func DisplayArtist(name string) string {
	if name != strings.ToLower(name) {
		return name
	}
	// A Caser keeps state, so each call gets its own.
	return cases.Title(language.English).String(name)
}
