/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
	"github.com/ademuri/kexp-tastemakers/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kexp-tastemakers",
	Short: "Analyzes the KEXP playlist",
	Long: `Finds the artists KEXP plays most, the hosts who introduce the most new
artists, and how the all-time top artists changed month by month.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kexp-tastemakers.yaml)")

	flags.StringP("dataset", "d", config.DefaultDatasetPath, "Playlist file: .csv, .tsv, .xlsx or an imported .db")
	flags.String("sheet", "", "Worksheet to read from an xlsx dataset (default is the first sheet)")
	flags.Int("sample_size", config.DefaultSampleSize, "Number of plays to sample, 0 for all")
	flags.Int64("seed", config.DefaultSeed, "Random seed for sampling")
	flags.String("host_exception", config.DefaultHostException, "Host name kept even though it contains the separator")
	flags.String("sentinel_artist", config.DefaultSentinelArtist, "Placeholder artist excluded from rankings")
	flags.String("host_separator", config.DefaultHostSeparator, "Hosts containing this are treated as multi-host rows and dropped")
	flags.Int("top_n", config.DefaultTopN, "Number of top artists and hosts")
	flags.Int("ranking_size", config.DefaultRankingSize, "Number of artists ranked each month")
	flags.String("log_level", config.DefaultLogLevel, "One of debug, info, warn, error")
	flags.String("from", "", "Only use plays from this date on ('yyyy', 'yyyy-mm' or 'yyyy-mm-dd')")
	flags.String("to", "", "Only use plays up to the end of this date ('yyyy', 'yyyy-mm' or 'yyyy-mm-dd')")

	for _, name := range []string{
		"dataset", "sheet", "sample_size", "seed", "host_exception", "sentinel_artist",
		"host_separator", "top_n", "ranking_size", "log_level", "from", "to",
	} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".kexp-tastemakers" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".kexp-tastemakers")
	}

	viper.SetEnvPrefix("KEXP")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.PersistentFlags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func loadConfig() (config.Config, error) {
	cfg := config.Config{
		DatasetPath:    viper.GetString("dataset"),
		Sheet:          viper.GetString("sheet"),
		SampleSize:     viper.GetInt("sample_size"),
		Seed:           viper.GetInt64("seed"),
		HostException:  viper.GetString("host_exception"),
		SentinelArtist: viper.GetString("sentinel_artist"),
		HostSeparator:  viper.GetString("host_separator"),
		TopN:           viper.GetInt("top_n"),
		RankingSize:    viper.GetInt("ranking_size"),
		LogLevel:       viper.GetString("log_level"),
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// runOptions builds the date window from positional date arguments when
// given, falling back to the --from and --to flags.
func runOptions(cfg config.Config, args []string) (analysis.RunOptions, error) {
	opts := analysis.RunOptions{Logger: newLogger(os.Stderr, cfg.LogLevel)}

	var err error
	if len(args) > 0 {
		opts.From, opts.To, err = parseDateRangeFromArgs(args)
	} else {
		opts.From, opts.To, err = parseWindow(viper.GetString("from"), viper.GetString("to"))
	}
	if err != nil {
		return analysis.RunOptions{}, fmt.Errorf("parsing dates: %w", err)
	}
	return opts, nil
}

// generateReport loads the configured dataset and builds the report.
func generateReport(args []string) (*analysis.Report, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	opts, err := runOptions(cfg, args)
	if err != nil {
		return nil, cfg, err
	}
	report, err := analysis.Run(cfg, opts)
	if err != nil {
		return nil, cfg, err
	}
	return report, cfg, nil
}
