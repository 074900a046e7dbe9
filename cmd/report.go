package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
	"github.com/ademuri/kexp-tastemakers/internal/config"
	"github.com/ademuri/kexp-tastemakers/internal/render"
)

var reportCmd = &cobra.Command{
	Use:   "report [from] [to (optional)]",
	Short: "Generates the tastemakers report",
	Long: `Renders the top artists, the top hosts by new artists introduced, the yearly
breakdown and the animated cumulative ranking. The format is html (default), yaml
or markdown.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		logo, _ := cmd.Flags().GetString("logo")
		err := runReport(args, viper.GetString("format"), viper.GetString("output"), logo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("format", "f", "html", "Output format: html, yaml or markdown")
	viper.BindPFlag("format", reportCmd.Flags().Lookup("format"))

	reportCmd.Flags().StringP("output", "o", "", "Output file (default is stdout)")
	viper.BindPFlag("output", reportCmd.Flags().Lookup("output"))

	reportCmd.Flags().String("logo", "", "PNG or JPEG shown at the top of the html report")
}

func runReport(args []string, format, output, logo string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	report, cfg, err := generateReport(args)
	if err != nil {
		return err
	}

	if output == "" {
		return writeReport(os.Stdout, report, cfg, format, logo)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := writeReport(f, report, cfg, format, logo); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s report to %s\n", format, output)
	return nil
}

func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case "html", "yaml", "markdown", "md":
		return nil
	}
	return fmt.Errorf("unknown format %q, expected html, yaml or markdown", format)
}

func writeReport(w io.Writer, report *analysis.Report, cfg config.Config, format, logo string) error {
	switch strings.ToLower(format) {
	case "html":
		return render.HTML(w, report, render.HTMLOptions{LogoPath: logo, RankingSize: cfg.RankingSize})
	case "yaml":
		return render.YAML(w, report)
	case "markdown", "md":
		return render.Markdown(w, report)
	}
	return checkFormat(format)
}
