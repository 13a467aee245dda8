package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cricket-schedules/internal/config"
	"github.com/pfrederiksen/cricket-schedules/internal/filter"
	"github.com/pfrederiksen/cricket-schedules/internal/logger"
	"github.com/pfrederiksen/cricket-schedules/internal/schedule"
	"github.com/pfrederiksen/cricket-schedules/internal/scraper"
	"github.com/pfrederiksen/cricket-schedules/internal/server"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagPort    int
	flagFormat  string
	flagRaw     bool
	flagFilter  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cricket-schedules",
		Short: "Serve cricket match schedules scraped from hamariweb.com",
		Long: `Fetches the hamariweb.com cricket schedules page, extracts the listed matches,
and serves them as JSON alongside the raw page and a small listing page.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")

	cmd.AddCommand(newServeCmd(), newFetchCmd())

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().IntVar(&flagPort, "port", 0, fmt.Sprintf("Port to listen on (default %d, or env PORT)", config.DefaultPort))

	return cmd
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the schedules page once and print the matches",
		Args:  cobra.NoArgs,
		RunE:  runFetch,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagRaw, "raw", false, "Print the page HTML instead of parsed matches")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Include links in text output and print fetch metrics to stderr")
	cmd.Flags().StringVar(&flagFilter, "filter", "", `Only show matching records, e.g. "team:pakistan status:live"`)

	return cmd
}

// loadConfig loads configuration and installs the configured default logger
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Server.Port = flagPort
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return cfg, nil
}

func newFetcher(cfg *config.Config) *scraper.Fetcher {
	return scraper.NewWithOptions(cfg.Upstream.URL, cfg.Upstream.UserAgent, cfg.Upstream.Timeout)
}

// runServe wires the fetcher, cache and HTTP server and blocks until interrupted
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fetcher := newFetcher(cfg)
	metrics := logger.NewMetrics()

	svc := schedule.NewService(fetcher, schedule.Options{
		RawTTL:    cfg.Cache.RawTTL,
		ParsedTTL: cfg.Cache.ParsedTTL,
		Metrics:   metrics,
	})

	srv, err := server.New(svc, fetcher, fetcher.URL(), logger.Default(), metrics)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting cricket-schedules", logger.Fields{
		"port":       cfg.Server.Port,
		"upstream":   cfg.Upstream.URL,
		"raw_ttl":    cfg.Cache.RawTTL.String(),
		"parsed_ttl": cfg.Cache.ParsedTTL.String(),
	})

	return srv.ListenAndServe(ctx, cfg.Server)
}

// runFetch fetches once and writes the result to stdout
func runFetch(cmd *cobra.Command, args []string) error {
	format := OutputFormat(flagFormat)
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	f, err := filter.Parse(flagFilter)
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fetcher := newFetcher(cfg)
	start := time.Now()
	html, err := fetcher.Fetch(ctx)
	logger.IncrCounter(logger.MetricUpstreamFetch)
	logger.RecordTiming(logger.MetricUpstreamFetch, time.Since(start))
	if err != nil {
		logger.IncrCounter(logger.MetricUpstreamError)
		return fmt.Errorf("fetching schedules: %w", err)
	}

	out := cmd.OutOrStdout()
	if flagRaw {
		_, err := fmt.Fprint(out, html)
		return err
	}

	all := scraper.Extract(html)
	logger.SetGauge(logger.MetricMatchesParsed, float64(len(all)))

	records := f.Apply(all)
	result := &OutputResult{
		FetchedAt:  time.Now().UTC(),
		Source:     fetcher.URL(),
		Matches:    records,
		MatchCount: len(records),
	}
	if !f.IsEmpty() {
		result.Filter = f.String()
	}

	if err := WriteOutput(out, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if flagVerbose {
		return writeMetrics(cmd.ErrOrStderr(), logger.GetMetricsSnapshot())
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
