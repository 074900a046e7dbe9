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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/kexp-tastemakers/internal/dataset"
	"github.com/ademuri/kexp-tastemakers/internal/store"
)

type ImportConfig struct {
	DbPath    string
	Source    string
	Sheet     string
	BatchSize int
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <playlist file>",
	Short: "Imports a playlist file into SQLite",
	Long: `Stores the plays of a .csv, .tsv or .xlsx playlist in a local SQLite database,
which can then be used as the dataset. Importing the same file again is a no-op.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := ImportConfig{
			DbPath:    viper.GetString("database"),
			Source:    args[0],
			Sheet:     viper.GetString("sheet"),
			BatchSize: viper.GetInt("batch_size"),
		}

		err := importPlaylist(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("database", "./kexp.db", "Path to the SQLite database")
	viper.BindPFlag("database", importCmd.Flags().Lookup("database"))

	importCmd.Flags().Int("batch_size", 5000, "Plays inserted per transaction")
	viper.BindPFlag("batch_size", importCmd.Flags().Lookup("batch_size"))
}

func importPlaylist(config ImportConfig) error {
	switch strings.ToLower(filepath.Ext(config.Source)) {
	case ".csv", ".tsv", ".xlsx":
	default:
		return fmt.Errorf("importing %s: %w", config.Source, dataset.ErrUnsupportedFormat)
	}
	if config.BatchSize < 1 {
		config.BatchSize = 5000
	}

	plays, err := dataset.Load(config.Source, dataset.LoadOptions{Sheet: config.Sheet})
	if err != nil {
		return fmt.Errorf("reading %s: %w", config.Source, err)
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	name := filepath.Base(config.Source)
	last, err := db.GetLastImported(name)
	if err != nil {
		return err
	}
	if !last.IsZero() {
		fmt.Printf("%s was last imported %s\n", name, last.Format("2006-01-02 15:04"))
	}

	fmt.Printf("Importing %d plays from %q\n", len(plays), config.Source)
	var inserted int64
	for start := 0; start < len(plays); start += config.BatchSize {
		end := min(start+config.BatchSize, len(plays))
		batch := make([]store.PlayImport, 0, end-start)
		for _, p := range plays[start:end] {
			batch = append(batch, toPlayImport(p))
		}

		n, err := db.AddPlays(batch)
		if err != nil {
			return fmt.Errorf("importing plays %d to %d: %w", start, end, err)
		}
		inserted += n
	}

	total, err := db.CountPlays()
	if err != nil {
		return err
	}
	if err := db.SetLastImported(name, time.Now(), total); err != nil {
		return err
	}

	fmt.Printf("Added %d new plays, %d in %s\n", inserted, total, config.DbPath)
	return nil
}

func toPlayImport(p dataset.Play) store.PlayImport {
	imp := store.PlayImport{Artist: p.Artist, Host: p.Host}
	if p.HasTime {
		imp.PlayedAt = p.PlayedAt.Format(time.RFC3339)
	}
	return imp
}
