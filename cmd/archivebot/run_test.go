package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

func writeJobFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const loadMoreJob = `
archive_url: https://example.com/archive
base_url: https://example.com
listing_selector: div.post
next_selector: button.more
strategy: load_more
oldest_date: "2025-01-01"
`

func TestCollectParamsKeepsJobFileStrategy(t *testing.T) {
	path := writeJobFile(t, loadMoreJob)

	cmd := runCmd()
	if err := cmd.ParseFlags([]string{"--job-file", path}); err != nil {
		t.Fatal(err)
	}

	params, err := collectParams(cmd)
	if err != nil {
		t.Fatal(err)
	}
	// The strategy flag's default must not shadow the file's value.
	if params.Strategy != types.StrategyLoadMore {
		t.Errorf("strategy = %q, want %q", params.Strategy, types.StrategyLoadMore)
	}
	if params.NextSelector != "button.more" {
		t.Errorf("next_selector = %q", params.NextSelector)
	}
}

func TestCollectParamsFlagOverridesJobFile(t *testing.T) {
	path := writeJobFile(t, loadMoreJob)

	cmd := runCmd()
	if err := cmd.ParseFlags([]string{"--job-file", path, "--strategy", "infinite_scroll"}); err != nil {
		t.Fatal(err)
	}

	params, err := collectParams(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if params.Strategy != types.StrategyInfiniteScroll {
		t.Errorf("strategy = %q, want %q", params.Strategy, types.StrategyInfiniteScroll)
	}
}

func TestCollectParamsDefaultStrategyWithoutJobFile(t *testing.T) {
	cmd := runCmd()
	if err := cmd.ParseFlags([]string{
		"--archive-url", "https://example.com/archive",
		"--base-url", "https://example.com",
		"--oldest", "2025-01-01",
	}); err != nil {
		t.Fatal(err)
	}

	params, err := collectParams(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if params.Strategy != types.StrategyNumbered {
		t.Errorf("strategy = %q, want default %q", params.Strategy, types.StrategyNumbered)
	}
	if err := params.Validate(); err != nil {
		t.Fatal(err)
	}
}
