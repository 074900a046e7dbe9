package analysis

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ademuri/kexp-tastemakers/internal/config"
	"github.com/ademuri/kexp-tastemakers/internal/dataset"
)

// RunOptions carries what a single report generation needs beyond Config.
type RunOptions struct {
	// Plays restricted to [From, To) before sampling. Zero means open.
	From, To time.Time
	Logger   *slog.Logger
	Now      func() time.Time
}

// Run loads the dataset named by cfg, samples it and builds the report.
func Run(cfg config.Config, opts RunOptions) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	plays, err := dataset.Load(cfg.DatasetPath, dataset.LoadOptions{Sheet: cfg.Sheet})
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	total := len(plays)
	log.Info("loaded dataset", "path", cfg.DatasetPath, "rows", total)

	if !opts.From.IsZero() || !opts.To.IsZero() {
		plays = dataset.Between(plays, opts.From, opts.To)
		log.Info("restricted to date window", "from", opts.From, "to", opts.To, "rows", len(plays))
		if len(plays) == 0 {
			return nil, fmt.Errorf("no plays between %s and %s: %w",
				opts.From.Format("2006-01-02"), opts.To.Format("2006-01-02"), dataset.ErrEmptyDataset)
		}
	}

	if cfg.SampleSize >= len(plays) {
		log.Warn("sample size covers the whole dataset, using every row",
			"sample_size", cfg.SampleSize, "rows", len(plays))
	}
	plays = dataset.Sample(plays, cfg.SampleSize, cfg.Seed)
	log.Debug("sampled dataset", "rows", len(plays), "seed", cfg.Seed)

	report, err := Generate(plays, cfg)
	if err != nil {
		return nil, err
	}
	report.Metadata.GeneratedAt = now().UTC()
	report.Metadata.Dataset = cfg.DatasetPath
	report.Metadata.TotalRows = total
	return report, nil
}

// Generate runs every aggregation over an already sampled set of plays.
func Generate(plays []dataset.Play, cfg config.Config) (*Report, error) {
	if len(plays) == 0 {
		return nil, dataset.ErrEmptyDataset
	}

	report := &Report{}
	report.Metadata.SampledRows = len(plays)
	report.Metadata.Seed = cfg.Seed
	for _, p := range plays {
		if !p.HasTime {
			report.Metadata.UndatedRows++
		}
	}

	report.TopArtists = TopArtists(plays, cfg.SentinelArtist, cfg.TopN)

	clean := Clean(plays, CleanOptions{
		Separator:     cfg.HostSeparator,
		HostException: cfg.HostException,
	})
	report.Metadata.CleanRows = len(clean)

	report.TopHosts = HostDiscoveries(clean, cfg.TopN)
	report.YearlyDiscoveries = YearlyDiscoveries(clean, report.TopHosts)

	// Absent (month, artist) cells count as zero, so the sparse counts rank
	// the same as the full grid.
	report.MonthlyRanking = RankCumulative(MonthlyPlayCounts(clean, cfg.SentinelArtist), cfg.RankingSize)
	if n := len(report.MonthlyRanking); n > 0 {
		first, last := report.MonthlyRanking[0].Month, report.MonthlyRanking[n-1].Month
		report.Metadata.FirstMonth = &first
		report.Metadata.LastMonth = &last
	}

	return report, nil
}
