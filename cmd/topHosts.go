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

var topHostsYearly bool

var topHostsCmd = &cobra.Command{
	Use:   "top-hosts [from] [to (optional)]",
	Short: "Gets the hosts who introduced the most artists",
	Long: `Counts the distinct artists each host has played. Rows listing several hosts are
skipped, except for the configured host exception. With --yearly, also prints the
count per year for each of the top hosts.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var a Analyser = TopHostsAnalyzer{}
		if topHostsYearly {
			a = YearlyHostsAnalyzer{}
		}
		err := printAnalysis(a, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topHostsCmd)

	topHostsCmd.Flags().BoolVar(&topHostsYearly, "yearly", false, "Break the counts down by year")
}

type TopHostsAnalyzer struct{}

func (t TopHostsAnalyzer) GetName() string {
	return "Top hosts"
}

func (t TopHostsAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	var a Analysis
	a.results = [][]string{{"Rank", "Host", "New Artists"}}
	for _, host := range report.TopHosts {
		a.results = append(a.results, []string{
			strconv.Itoa(host.Rank), host.Host, strconv.Itoa(host.NewArtists),
		})
	}

	a.summary = fmt.Sprintf("Found %d hosts in %d plays after removing multi-host rows",
		len(report.TopHosts), report.Metadata.CleanRows)
	return a, nil
}

type YearlyHostsAnalyzer struct{}

func (t YearlyHostsAnalyzer) GetName() string {
	return "New artists by year"
}

func (t YearlyHostsAnalyzer) GetResults(report *analysis.Report) (Analysis, error) {
	var a Analysis
	a.results = [][]string{{"Year", "Host", "New Artists"}}
	for _, row := range report.BarChartRows() {
		a.results = append(a.results, []string{
			strconv.Itoa(row.Year), row.Host, strconv.Itoa(row.NewArtists),
		})
	}

	years := report.Years()
	switch len(years) {
	case 0:
		a.summary = "No dated plays for the top hosts"
	default:
		a.summary = fmt.Sprintf("%d top hosts over %d to %d", len(report.TopHosts), years[0], years[len(years)-1])
	}
	return a, nil
}
