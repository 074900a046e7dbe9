package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/ademuri/kexp-tastemakers/internal/config"
)

const testPlaylist = `Artist,Song,Host,DateTime
Wilco,Jesus Etc.,Cheryl Waters,2019-12-03 10:00:00
Wilco,Impossible Germany,Cheryl Waters,2020-01-05 10:00:00
Bjork,Joga,Kevin Cole,2020-01-09 22:00:00
Bjork,Hyperballad,"Larry Mizell, Jr.",2020-02-14 21:00:00
Sleater-Kinney,Dig Me Out,"Larry Mizell, Jr.",2020-03-01 21:00:00
(Various Artists),Compilation,Kevin Cole,2020-03-02 22:00:00
(Various Artists),Compilation,Kevin Cole,2020-03-03 22:00:00
(Various Artists),Compilation,Kevin Cole,2020-03-04 22:00:00
Wilco,Misunderstood,"Jane, Doe",2020-03-05 09:00:00
`

func writeTestPlaylist(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "KEXP_Playlist.csv")
	if err := os.WriteFile(path, []byte(testPlaylist), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// useTestConfig points every config key at defaults and the given dataset,
// with sampling disabled.
func useTestConfig(t *testing.T, dataset string) {
	t.Helper()
	viper.Set("dataset", dataset)
	viper.Set("sheet", "")
	viper.Set("sample_size", 0)
	viper.Set("seed", config.DefaultSeed)
	viper.Set("host_exception", config.DefaultHostException)
	viper.Set("sentinel_artist", config.DefaultSentinelArtist)
	viper.Set("host_separator", config.DefaultHostSeparator)
	viper.Set("top_n", config.DefaultTopN)
	viper.Set("ranking_size", config.DefaultRankingSize)
	viper.Set("log_level", "error")
	viper.Set("from", "")
	viper.Set("to", "")
}
