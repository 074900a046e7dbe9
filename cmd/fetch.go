package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type FetchConfig struct {
	URL      string
	Output   string
	Attempts uint
	Delay    time.Duration
	Client   *http.Client
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Downloads a playlist export",
	Long: `Downloads the playlist file at <url> to --output, or to the configured dataset
path. Server errors and dropped connections are retried.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output := viper.GetString("output_file")
		if output == "" {
			output = viper.GetString("dataset")
		}
		config := FetchConfig{
			URL:      args[0],
			Output:   output,
			Attempts: viper.GetUint("attempts"),
			Delay:    time.Second,
		}
		err := fetchDataset(cmd.Context(), config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringP("output", "o", "", "Where to save the file (default is the dataset path)")
	viper.BindPFlag("output_file", fetchCmd.Flags().Lookup("output"))

	fetchCmd.Flags().Uint("attempts", 5, "Number of download attempts")
	viper.BindPFlag("attempts", fetchCmd.Flags().Lookup("attempts"))
}

// statusError is a non-200 response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.code, http.StatusText(e.code))
}

// retryable reports whether a download error is transient: a 5xx or 429
// response, a failed round trip, or a body cut short.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	var ue *url.Error
	return errors.As(err, &ue) || errors.Is(err, io.ErrUnexpectedEOF)
}

func fetchDataset(ctx context.Context, config FetchConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}

	if config.Attempts < 1 {
		config.Attempts = 1
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.URL, nil)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", config.URL, err)
	}

	dir := filepath.Dir(config.Output)
	tmp, err := os.CreateTemp(dir, ".fetch-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	var written int64
	err = retry.Do(
		func() error {
			if err := tmp.Truncate(0); err != nil {
				return err
			}
			if _, err := tmp.Seek(0, io.SeekStart); err != nil {
				return err
			}

			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return &statusError{resp.StatusCode}
			}

			written, err = io.Copy(tmp, resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(config.Attempts),
		retry.Delay(config.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			fmt.Fprintf(os.Stderr, "Fetching %s failed, retrying: %v\n", config.URL, err)
		}),
	)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", config.URL, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", config.Output, err)
	}
	if err := os.Rename(tmp.Name(), config.Output); err != nil {
		return fmt.Errorf("saving %s: %w", config.Output, err)
	}
	fmt.Printf("Saved %d bytes to %s\n", written, config.Output)
	return nil
}
