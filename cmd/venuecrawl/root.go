package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for venuecrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venuecrawl",
		Short: "Crawl a regional venue directory into SQLite",
		Long: `venuecrawl walks a venue directory tier by tier:
regions, cities, city listings, venues and their paginated comment threads.

Every record is upserted, so an interrupted crawl can simply be run again.
Region and city URLs found by earlier runs are reused.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
