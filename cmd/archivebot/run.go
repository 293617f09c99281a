package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Khaliq12345/news-archive-bot/internal/config"
	"github.com/Khaliq12345/news-archive-bot/internal/job"
	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

var (
	jobFile           string
	archiveURL        string
	baseURL           string
	listingSelector   string
	detailSelector    string
	nextSelector      string
	strategy          string
	oldestDate        string
	earliestDate      string
	primaryKeywords   []string
	secondaryKeywords []string
)

// runCmd creates the "run" subcommand. One invocation runs exactly one job
// in this process; run separate processes for separate domains so a kill
// cannot disturb sibling jobs.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one archive crawl job",
		Long: `Run one archive crawl job to completion in this process.

Job parameters come from --job-file (YAML) or from flags; flags override
the file. Keyword flags accept ";"-separated lists, repeated flags, or both.`,
		RunE: runJob,
	}

	cmd.Flags().StringVarP(&jobFile, "job-file", "j", "", "YAML file with job parameters")
	cmd.Flags().StringVar(&archiveURL, "archive-url", "", "first listing page of the archive")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL for relative links and the job key")
	cmd.Flags().StringVar(&listingSelector, "listing-selector", "", "article teaser selector (empty = LLM listing extraction; prefix xpath: for XPath)")
	cmd.Flags().StringVar(&detailSelector, "detail-selector", "", "article body selector (empty = readable page text)")
	cmd.Flags().StringVar(&nextSelector, "next-selector", "", "next page / load-more / click control selector")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", types.StrategyNumbered, "pagination strategy: numbered, load_more, infinite_scroll, click")
	cmd.Flags().StringVar(&oldestDate, "oldest", "", `date to stop at, e.g. "January 01, 2025"`)
	cmd.Flags().StringVar(&earliestDate, "earliest", "", "date to start from (default now)")
	cmd.Flags().StringSliceVarP(&primaryKeywords, "primary", "p", nil, "primary keywords")
	cmd.Flags().StringSliceVarP(&secondaryKeywords, "secondary", "k", nil, "secondary keywords")

	return cmd
}

func runJob(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	params, err := collectParams(cmd)
	if err != nil {
		return err
	}

	logger := job.NewLogger(cfg.Logging, os.Stderr)
	runner := job.NewRunner(cfg, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	saved, err := runner.Run(ctx, *params)
	if err != nil {
		if errors.Is(err, types.ErrJobRunning) {
			return fmt.Errorf("archive is currently running: %s", params.BaseURL)
		}
		return err
	}

	fmt.Printf("Total saved: %d\n", saved)
	return nil
}

// collectParams merges the job file with flag overrides. The strategy flag
// carries a non-empty default, so only a flag the user actually set may
// override the file's value.
func collectParams(cmd *cobra.Command) (*types.JobParameters, error) {
	params := &types.JobParameters{}
	if jobFile != "" {
		loaded, err := config.LoadJob(jobFile)
		if err != nil {
			return nil, err
		}
		params = loaded
	}

	if archiveURL != "" {
		params.ArchiveURL = archiveURL
	}
	if baseURL != "" {
		params.BaseURL = baseURL
	}
	if listingSelector != "" {
		params.ListingSelector = listingSelector
	}
	if detailSelector != "" {
		params.DetailSelector = detailSelector
	}
	if nextSelector != "" {
		params.NextSelector = nextSelector
	}
	if cmd.Flags().Changed("strategy") || params.Strategy == "" {
		params.Strategy = strategy
	}
	if oldestDate != "" {
		params.OldestDate = oldestDate
	}
	if earliestDate != "" {
		params.EarliestDate = earliestDate
	}
	if len(primaryKeywords) > 0 {
		params.PrimaryKeywords = config.SplitKeywords(primaryKeywords)
	}
	if len(secondaryKeywords) > 0 {
		params.SecondaryKeywords = config.SplitKeywords(secondaryKeywords)
	}
	return params, nil
}
