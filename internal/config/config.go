// Package config holds the named options that drive report generation.
package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultDatasetPath    = "./KEXP_Playlist.csv"
	DefaultSampleSize     = 5000
	DefaultSeed           = 42
	DefaultHostException  = "Larry Mizell, Jr."
	DefaultSentinelArtist = "(Various Artists)"
	DefaultHostSeparator  = ","
	DefaultTopN           = 10
	DefaultRankingSize    = 10
	DefaultLogLevel       = "info"
)

// ErrInvalidConfig is returned by Validate for any out-of-range option.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is passed explicitly into the pipeline; nothing reads globals.
type Config struct {
	// DatasetPath is a .csv, .tsv, .xlsx or SQLite (.db, .sqlite) file.
	DatasetPath string `yaml:"dataset"`
	// Sheet selects the xlsx worksheet. Empty means the first sheet.
	Sheet string `yaml:"sheet,omitempty"`

	// SampleSize rows are drawn before aggregation. Zero disables sampling.
	SampleSize int   `yaml:"sample_size"`
	Seed       int64 `yaml:"seed"`

	HostException  string `yaml:"host_exception"`
	SentinelArtist string `yaml:"sentinel_artist"`
	HostSeparator  string `yaml:"host_separator"`

	TopN        int `yaml:"top_n"`
	RankingSize int `yaml:"ranking_size"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration the dashboard has always shipped with.
func Default() Config {
	return Config{
		DatasetPath:    DefaultDatasetPath,
		SampleSize:     DefaultSampleSize,
		Seed:           DefaultSeed,
		HostException:  DefaultHostException,
		SentinelArtist: DefaultSentinelArtist,
		HostSeparator:  DefaultHostSeparator,
		TopN:           DefaultTopN,
		RankingSize:    DefaultRankingSize,
		LogLevel:       DefaultLogLevel,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatasetPath) == "" {
		return fmt.Errorf("%w: dataset path is empty", ErrInvalidConfig)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("%w: sample_size must not be negative, got %d", ErrInvalidConfig, c.SampleSize)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: top_n must be at least 1, got %d", ErrInvalidConfig, c.TopN)
	}
	if c.RankingSize < 1 {
		return fmt.Errorf("%w: ranking_size must be at least 1, got %d", ErrInvalidConfig, c.RankingSize)
	}
	if c.HostSeparator == "" {
		return fmt.Errorf("%w: host_separator is empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
