package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Khaliq12345/news-archive-bot/internal/job"
	"github.com/Khaliq12345/news-archive-bot/internal/store"
	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// statusCmd creates the "status" subcommand.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [base-url]",
		Short: "Show job progress entries",
		Long:  "Show every job entry in the progress file, or the entry for one base URL.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			runner := job.NewRunner(cfg, job.NewLogger(cfg.Logging, os.Stderr))

			entries, err := runner.Progress().All()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				key, err := types.JobKey(args[0])
				if err != nil {
					return err
				}
				entry, ok := entries[key]
				if !ok {
					return fmt.Errorf("%w: %s", types.ErrJobNotFound, args[0])
				}
				printEntry(key, entry)
				return nil
			}

			if len(entries) == 0 {
				fmt.Println("no jobs recorded")
				return nil
			}
			for key, entry := range entries {
				printEntry(key, entry)
			}
			return nil
		},
	}
}

// cancelCmd creates the "cancel" subcommand.
func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <base-url>",
		Short: "Kill a running job and mark it failed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			runner := job.NewRunner(cfg, job.NewLogger(cfg.Logging, os.Stderr))

			key, err := types.JobKey(args[0])
			if err != nil {
				return err
			}
			if err := runner.Cancel(key); err != nil {
				return err
			}
			fmt.Printf("job cancelled: %s\n", args[0])
			return nil
		},
	}
}

func printEntry(key string, entry store.Entry) {
	base := ""
	if entry.Params != nil {
		base = entry.Params.BaseURL
	}
	fmt.Printf("%s  %-8s  pid=%-6d  updated=%s  %s\n",
		key, entry.Progress, entry.PID, entry.Updated.Format(time.RFC3339), base)
}
