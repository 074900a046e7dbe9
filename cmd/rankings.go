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
	"github.com/spf13/viper"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
)

var rankingsCmd = &cobra.Command{
	Use:   "rankings [from] [to (optional)]",
	Short: "Gets the all-time top artists as of each month",
	Long: `Ranks artists by cumulative plays through each month. Prints the ranking for
--month (yyyy-mm), or for the last month in the data when it is not set.
With --all, prints the leader of every month instead.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		a := RankingsAnalyzer{
			Month: viper.GetString("month"),
			All:   viper.GetBool("all"),
		}
		err := printAnalysis(a, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(rankingsCmd)

	rankingsCmd.Flags().String("month", "", "Month to print, as yyyy-mm")
	viper.BindPFlag("month", rankingsCmd.Flags().Lookup("month"))

	rankingsCmd.Flags().Bool("all", false, "Print the top artist of every month")
	viper.BindPFlag("all", rankingsCmd.Flags().Lookup("all"))
}

type RankingsAnalyzer struct {
	// Month is yyyy-mm. Empty means the last month.
	Month string
	All   bool
}

func (r RankingsAnalyzer) GetName() string {
	return "Cumulative top artists"
}

func (r RankingsAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	var a Analysis
	rankings := report.MonthlyRanking
	if len(rankings) == 0 {
		a.results = [][]string{{"Rank", "Artist", "Plays to Date"}}
		a.summary = "No dated plays to rank"
		return a, nil
	}

	if r.All {
		a.results = [][]string{{"Month", "Artist", "Plays to Date"}}
		for _, m := range rankings {
			if len(m.Entries) == 0 {
				continue
			}
			top := m.Entries[0]
			a.results = append(a.results, []string{m.Month.String(), top.Artist, strconv.FormatInt(top.TotalPlaysToDate, 10)})
		}
		a.summary = fmt.Sprintf("%d months from %s to %s", len(rankings), rankings[0].Month, rankings[len(rankings)-1].Month)
		return a, nil
	}

	month := rankings[len(rankings)-1]
	if r.Month != "" {
		found := false
		for _, m := range rankings {
			if m.Month.String() == r.Month {
				month, found = m, true
				break
			}
		}
		if !found {
			return a, fmt.Errorf("no ranking for %q, data covers %s to %s",
				r.Month, rankings[0].Month, rankings[len(rankings)-1].Month)
		}
	}

	a.results = [][]string{{"Rank", "Artist", "Plays to Date"}}
	for _, e := range month.Entries {
		a.results = append(a.results, []string{strconv.Itoa(e.Rank), e.Artist, strconv.FormatInt(e.TotalPlaysToDate, 10)})
	}
	a.summary = fmt.Sprintf("All-time top %d artists through %s", len(month.Entries), month.Month)
	return a, nil
}
