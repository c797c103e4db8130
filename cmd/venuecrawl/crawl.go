package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/venuecrawl/internal/config"
	"github.com/nao1215/venuecrawl/internal/crawler"
	"github.com/nao1215/venuecrawl/internal/database"
	"github.com/nao1215/venuecrawl/internal/extract"
	"github.com/nao1215/venuecrawl/internal/fetch"
	"github.com/nao1215/venuecrawl/internal/model"
	"github.com/nao1215/venuecrawl/internal/politeness"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the venue directory into the local database",
		Long: `Crawl walks the directory from its home page:

  1. region links from the home page (skipped once regions are stored)
  2. city links from every region page
  3. venue links from every city listing
  4. each venue page and its comment pages

Requests are made one at a time with a random pause before each one.
The first error aborts the run; everything saved up to that point stays
in the database and the next run upserts over it.

Examples:
  # Crawl with defaults (database in ~/.local/share/venuecrawl)
  venuecrawl crawl

  # Use a different database directory and write a Markdown report
  venuecrawl crawl --db-dir ./data --markdown -o reports/run.md

  # Route requests through a local SOCKS5 proxy at one request per second
  venuecrawl crawl --proxy socks5://127.0.0.1:1080 --rate 1`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .venuecrawl in current or home directory)")
	cmd.Flags().StringP("base-url", "u", config.DefaultBaseURL,
		"Root URL of the venue directory")
	cmd.Flags().String("db-dir", "",
		"Directory for venuecrawl.db (default: XDG data directory)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().String("user-agent", "",
		"User-Agent header (default: desktop browser string)")
	cmd.Flags().StringP("proxy", "x", "",
		"Proxy URL (http, https, socks5 or socks5h)")
	cmd.Flags().Float64P("rate", "r", 0,
		"Maximum requests per second on top of the per-tier delays (0 = no limit)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().Bool("json-logs", false,
		"Write logs as JSON")

	addReportFlags(cmd)

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCrawlConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildCrawlConfig creates a Config from flags and the config file.
// Flags the user set explicitly take precedence over the file.
func buildCrawlConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if ua, err := flags.GetString("user-agent"); err != nil {
		return nil, err
	} else if ua != "" {
		cfg.UserAgent = ua
	}
	if cfg.ProxyURL, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.RequestsPerSecond, err = flags.GetFloat64("rate"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.JSONLogs, err = flags.GetBool("json-logs"); err != nil {
		return nil, err
	}
	if dbDir, err := flags.GetString("db-dir"); err != nil {
		return nil, err
	} else if dbDir != "" {
		cfg.DBDir = dbDir
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := loadConfigFile(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile applies the config file to cfg.
// A missing file is an error only when its path was given explicitly.
func loadConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	explicit := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		explicit[f.Name] = true
	})
	file.Apply(cfg, explicit)
	return nil
}

// runCrawl wires the crawl components together, runs one crawl and
// writes its report. The report is written even when the crawl fails.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	logger.Info("starting crawl",
		"base_url", cfg.BaseURL,
		"db_dir", cfg.DBDir,
		"proxy", cfg.ProxyURL,
		"rate", cfg.RequestsPerSecond,
	)

	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()
	logger.Debug("database opened", "path", store.Path())

	c, err := newCrawler(cfg, store, logger)
	if err != nil {
		return err
	}

	runReport, runErr := c.Run(ctx)
	if err := outputRunReport(cfg, runReport, stdout); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return fmt.Errorf("crawl failed: %w", runErr)
	}
	return nil
}

// newCrawler builds the fetcher, extractor and pacer for cfg.
func newCrawler(cfg *config.Config, store *database.Store, logger *slog.Logger) (*crawler.Crawler, error) {
	client, err := fetch.New(
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithHeaders(cfg.File.RequestHeaders()),
		fetch.WithCookie(cfg.File.Cookie()),
		fetch.WithProxy(cfg.ProxyURL),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	extractor, err := extract.New(cfg.BaseURL, extract.WithSelectors(cfg.File.CrawlSelectors()))
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	pacer := politeness.New(cfg.Delays, politeness.WithRate(cfg.RequestsPerSecond))

	return crawler.New(cfg.BaseURL, client, store, extractor,
		crawler.WithLogger(logger),
		crawler.WithPacer(pacer),
	), nil
}

// outputRunReport writes the run report in the configured format.
func outputRunReport(cfg *config.Config, runReport *model.RunReport, stdout io.Writer) error {
	w, closeFn, err := openReportWriter(cfg, stdout)
	if err != nil {
		return err
	}
	if _, err := w.WriteRun(runReport); err != nil {
		_ = closeFn()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return closeFn()
}
