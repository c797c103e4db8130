package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/venuecrawl/internal/config"
	"github.com/nao1215/venuecrawl/internal/database"
)

// defaultTopVenues is the number of venues listed by default.
const defaultTopVenues = 10

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the local database",
		Long: `Report reads the database written by crawl and prints how many regions,
cities, venues and comments it holds, the average venue rating and the
venues with the most comments.

Examples:
  # Summary of the default database
  venuecrawl report

  # Twenty busiest venues as Markdown
  venuecrawl report --top 20 --markdown`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Directory holding venuecrawl.db (default: XDG data directory)")
	cmd.Flags().IntP("top", "n", defaultTopVenues,
		"Number of most-commented venues to list (0 to hide)")

	addReportFlags(cmd)

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}

	if err := readReportFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}

	return runReport(cmd.Context(), cfg, top, cmd.OutOrStdout())
}

// runReport opens the existing database and writes its summary.
func runReport(ctx context.Context, cfg *config.Config, top int, stdout io.Writer) error {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	store, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database (run \"venuecrawl crawl\" first): %w", err)
	}
	defer store.Close()

	summary, err := store.Summary(ctx, max(top, 0))
	if err != nil {
		return fmt.Errorf("failed to summarize database: %w", err)
	}

	w, closeFn, err := openReportWriter(cfg, stdout)
	if err != nil {
		return err
	}
	if _, err := w.WriteSummary(summary); err != nil {
		_ = closeFn()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return closeFn()
}
