package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the html report over HTTP",
	Long: `Regenerates the report from the dataset when the page is loaded, at most once
per refresh interval. Requests in between get the last rendered page.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		logo, _ := cmd.Flags().GetString("logo")
		err := serve(viper.GetString("addr"), viper.GetDuration("refresh_interval"), logo)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "localhost:8080", "Address to listen on")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))

	serveCmd.Flags().Duration("refresh_interval", time.Minute, "Minimum time between regenerations")
	viper.BindPFlag("refresh_interval", serveCmd.Flags().Lookup("refresh_interval"))

	serveCmd.Flags().String("logo", "", "PNG or JPEG shown at the top of the page")
}

// reportServer caches the last rendered page and rebuilds it when the
// limiter allows.
type reportServer struct {
	build   func() ([]byte, error)
	limiter *rate.Limiter
	log     *slog.Logger

	mu   sync.Mutex
	page []byte
}

func newReportServer(build func() ([]byte, error), interval time.Duration, log *slog.Logger) *reportServer {
	return &reportServer{
		build:   build,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		log:     log,
	}
}

func (s *reportServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, err := s.current()
	if err != nil {
		s.log.Error("generating report", "err", err)
		http.Error(w, "could not generate report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *reportServer) current() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow() && s.page != nil {
		s.log.Debug("serving cached report")
		return s.page, nil
	}

	start := time.Now()
	page, err := s.build()
	if err != nil {
		if s.page != nil {
			s.log.Warn("regenerating report failed, serving the previous one", "err", err)
			return s.page, nil
		}
		return nil, err
	}
	s.page = page
	s.log.Info("regenerated report", "bytes", len(page), "took", time.Since(start))
	return page, nil
}

func serve(addr string, interval time.Duration, logo string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := runOptions(cfg, nil)
	if err != nil {
		return err
	}
	log := opts.Logger

	build := func() ([]byte, error) {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		report, err := analysis.Run(cfg, opts)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := writeReport(&buf, report, cfg, "html", logo); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newReportServer(build, interval, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("serving report", "addr", addr, "refresh_interval", interval)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
