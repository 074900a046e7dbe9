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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
)

var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [from] [to (optional)]",
	Short: "Gets the most played artists",
	Long: `Counts plays per artist in the sampled playlist, excluding the sentinel artist.
Optionally restricted to a date or date range. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printAnalysis(TopArtistsAnalyzer{}, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)
}

// printAnalysis generates a report and prints one analyser's table.
func printAnalysis(a Analyser, args []string) error {
	report, _, err := generateReport(args)
	if err != nil {
		return err
	}
	out, err := a.GetResults(report)
	if err != nil {
		return fmt.Errorf("%s: %w", a.GetName(), err)
	}
	fmt.Println(out)
	return nil
}

type TopArtistsAnalyzer struct{}

func (t TopArtistsAnalyzer) GetName() string {
	return "Top artists"
}

func (t TopArtistsAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	var a Analysis
	a.results = [][]string{{"Rank", "Artist", "Plays"}}
	var plays int64
	for _, artist := range report.TopArtists {
		a.results = append(a.results, []string{
			strconv.Itoa(artist.Rank), artist.Artist, strconv.FormatInt(artist.Plays, 10),
		})
		plays += artist.Plays
	}

	a.summary = fmt.Sprintf("Top %d artists account for %d of %d sampled plays",
		len(report.TopArtists), plays, report.Metadata.SampledRows)
	return a, nil
}
