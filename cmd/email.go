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
	"html"
	"os"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
)

type SendEmailConfig struct {
	From   string
	To     string
	Types  []string
	DryRun bool
	APIKey string
	Args   []string
}

// emailSender is satisfied by *sendgrid.Client.
type emailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

var emailCmd = &cobra.Command{
	Use:   "email <address> [analysis_name...]",
	Short: "Sends an email report",
	Long: `Emails the report tables to the specified address through SendGrid.
  [analysis_name] is one or more of: top-artists, top-hosts, rankings (default is all).
  The --from and --to date flags restrict the plays as for every other command.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("sender") == "" {
			return fmt.Errorf("required flag(s) \"sender\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		types := args[1:]
		if len(types) == 0 {
			types = analyserNames
		}
		config := SendEmailConfig{
			From:   viper.GetString("sender"),
			To:     args[0],
			Types:  types,
			DryRun: viper.GetBool("dryRun"),
			APIKey: viper.GetString("sendgrid_api_key"),
		}
		err := sendEmail(config, nil)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	emailCmd.Flags().String("sender", "", "From email address")
	viper.BindPFlag("sender", emailCmd.Flags().Lookup("sender"))

	emailCmd.Flags().String("sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", emailCmd.Flags().Lookup("sendgrid_api_key"))

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))
}

// sendEmail builds the report and mails it. A nil sender means a SendGrid
// client for config.APIKey.
func sendEmail(config SendEmailConfig, sender emailSender) error {
	actions := make([]Analyser, 0, len(config.Types))
	for _, name := range config.Types {
		action, err := getAnalyserFromName(name)
		if err != nil {
			return err
		}
		actions = append(actions, action)
	}

	report, _, err := generateReport(config.Args)
	if err != nil {
		return err
	}

	subject, htmlBody, textBody, err := generateEmailContent(report, actions)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, textBody)
		return nil
	}

	if sender == nil {
		if config.APIKey == "" {
			return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
		}
		sender = sendgrid.NewSendClient(config.APIKey)
	}

	from := mail.NewEmail("kexp-tastemakers", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, textBody, htmlBody)
	resp, err := sender.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	if resp != nil && resp.StatusCode >= 300 {
		return fmt.Errorf("sendEmail: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func generateEmailContent(report *analysis.Report, actions []Analyser) (subject, htmlBody, textBody string, err error) {
	var out, text strings.Builder
	out.WriteString(`
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`)
	for _, action := range actions {
		results, err := action.GetResults(report)
		if err != nil {
			return "", "", "", fmt.Errorf("getting results for %s: %w", action.GetName(), err)
		}

		fmt.Fprintf(&out, "<div>\n<h2>%s</h2>\n", html.EscapeString(action.GetName()))
		fmt.Fprintf(&text, "%s\n%s\n", action.GetName(), results)
		if len(results.results) <= 1 {
			out.WriteString("<div>No plays found.</div>\n")
		} else {
			out.WriteString("<table>\n<thead>\n<tr>")
			for _, header := range results.results[0] {
				fmt.Fprintf(&out, "<th>%s</th>", html.EscapeString(header))
			}
			out.WriteString("</tr>\n</thead>\n<tbody>\n")
			for _, row := range results.results[1:] {
				out.WriteString("<tr>")
				for _, column := range row {
					fmt.Fprintf(&out, "<td>%s</td>", html.EscapeString(column))
				}
				out.WriteString("</tr>\n")
			}
			out.WriteString("</tbody>\n</table>\n")
		}
		fmt.Fprintf(&out, "<div>%s</div>\n</div>\n", html.EscapeString(results.summary))
	}
	out.WriteString("  </body>\n</html>\n")

	subject = "KEXP tastemakers report"
	if first, last := report.Metadata.FirstMonth, report.Metadata.LastMonth; first != nil && last != nil {
		subject = fmt.Sprintf("KEXP tastemakers report, %s to %s", first, last)
	}
	return subject, out.String(), text.String(), nil
}
