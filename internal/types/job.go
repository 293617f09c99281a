package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Pagination strategy tags. Strategy selection is a closed set; anything
// else is rejected at job start.
const (
	StrategyNumbered       = "numbered"
	StrategyLoadMore       = "load_more"
	StrategyInfiniteScroll = "infinite_scroll"
	StrategyClick          = "click"
)

// JobParameters describes one archive crawl. The struct is immutable for
// the lifetime of a job; a snapshot is persisted in the progress file.
type JobParameters struct {
	// ArchiveURL is the first listing page of the news archive.
	ArchiveURL string `json:"archive_url" mapstructure:"archive_url"`

	// BaseURL is used to resolve relative article links and to derive
	// the job key from its host.
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// ListingSelector locates article teasers on a listing page. CSS by
	// default; prefix with "xpath:" for an XPath expression. Empty means
	// LLM-only listing extraction.
	ListingSelector string `json:"listing_selector" mapstructure:"listing_selector"`

	// DetailSelector narrows a detail page to the article body. Empty
	// means the whole readable page text is used.
	DetailSelector string `json:"detail_selector" mapstructure:"detail_selector"`

	// NextSelector is the next-page / load-more control, or the element
	// the click strategy presses on each step.
	NextSelector string `json:"next_selector" mapstructure:"next_selector"`

	// Strategy is one of the Strategy* tags.
	Strategy string `json:"strategy" mapstructure:"strategy"`

	// OldestDate is the free-text lower bound of the crawl window.
	OldestDate string `json:"oldest_date" mapstructure:"oldest_date"`

	// EarliestDate is the free-text upper bound; blank means "now".
	EarliestDate string `json:"earliest_date" mapstructure:"earliest_date"`

	PrimaryKeywords   []string `json:"primary_keywords" mapstructure:"primary_keywords"`
	SecondaryKeywords []string `json:"secondary_keywords" mapstructure:"secondary_keywords"`
}

// LLMOnly reports whether listing extraction should be delegated to the
// structured-extraction model instead of a selector.
func (p *JobParameters) LLMOnly() bool { return p.ListingSelector == "" }

// Validate checks the fields that have no usable default.
func (p *JobParameters) Validate() error {
	switch {
	case p.ArchiveURL == "":
		return fmt.Errorf("%w: archive_url", ErrMissingParameter)
	case p.BaseURL == "":
		return fmt.Errorf("%w: base_url", ErrMissingParameter)
	case p.OldestDate == "":
		return fmt.Errorf("%w: oldest_date", ErrMissingParameter)
	}
	switch p.Strategy {
	case StrategyNumbered, StrategyInfiniteScroll:
	case StrategyLoadMore:
		if p.NextSelector == "" {
			return fmt.Errorf("%w: next_selector (required by %s)", ErrMissingParameter, p.Strategy)
		}
	case StrategyClick:
	default:
		return fmt.Errorf("unknown pagination strategy %q", p.Strategy)
	}
	if _, err := url.Parse(p.BaseURL); err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	return nil
}

// JobKey derives the stable per-domain identifier that joins the seen-URL
// ledger, the progress file and the job log. Two jobs whose base URLs share
// a host share a key, and therefore share dedup and progress state.
func JobKey(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("job key: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("job key: no host in %q", baseURL)
	}
	sum := sha1.Sum([]byte(host))
	return hex.EncodeToString(sum[:]), nil
}

// DateWindow is the inclusive publication-date range a record must fall in
// to be persisted. A record dated exactly on either bound is in window.
type DateWindow struct {
	Oldest   time.Time
	Earliest time.Time
}

// Contains reports whether t lies inside the window, bounds included.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Oldest) && !t.After(w.Earliest)
}
