// Package paginate implements the four page-advance state machines that
// walk a news archive: numbered, load-more, infinite-scroll and click. All
// of them share one article pipeline: resolve URL, extract detail, parse
// date, test the cutoff window, validate keywords, persist.
package paginate

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/Khaliq12345/news-archive-bot/internal/extract"
	"github.com/Khaliq12345/news-archive-bot/internal/storage"
	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// Browser is the subset of the browser session the strategies drive.
type Browser interface {
	Navigate(url string) error
	WaitFor(selector string) error
	Content() (string, error)
	Click(selector string) error
	IsVisible(selector string) bool
	ScrollToEnd() error
	PressEnd() error
	CurrentURL() (string, error)
}

// Lister extracts article references from one rendered page.
type Lister interface {
	Extract(ctx context.Context, html string) []types.ArticleReference
}

// DetailFetcher produces the detail record for one article URL, or nil.
type DetailFetcher interface {
	Fetch(ctx context.Context, articleURL string, primary, secondary []string) (*types.DetailRecord, error)
}

// Crawl carries everything one job's strategy needs. Fetching and
// extraction are strictly sequential: termination depends on meeting
// articles in the site's published order.
type Crawl struct {
	Params  types.JobParameters
	Window  types.DateWindow
	Page    Browser
	Lister  Lister
	Details DetailFetcher
	Sink    storage.Sink
	Table   string
	Logger  *slog.Logger

	// StepWait is the fixed pause after a click or scroll step.
	StepWait time.Duration

	// saved counts persisted records across the whole run.
	saved int
	// parsedAny flips once a record with a parseable date has been seen;
	// after that, a dateless record is the walked-past-window signal.
	parsedAny bool
}

// processBatch runs every reference of one page view through the shared
// pipeline. It returns toContinue=false once a record falls outside the
// window; the batch in hand is still evaluated to the end, only further
// pages stop being requested.
func (c *Crawl) processBatch(ctx context.Context, refs []types.ArticleReference) (toContinue bool, err error) {
	toContinue = true

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		articleURL, ok := c.resolveURL(ref.URL)
		if !ok {
			// Unresolvable listing references are skipped silently.
			continue
		}

		rec, err := c.Details.Fetch(ctx, articleURL, c.Params.PrimaryKeywords, c.Params.SecondaryKeywords)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			// Per-article failure: log, skip, keep crawling.
			c.Logger.Warn("article skipped", "url", articleURL, "error", err)
			continue
		}
		if rec == nil {
			continue
		}

		recordDate, reason := extract.RecordDate(rec)
		if reason != types.Usable {
			if c.parsedAny {
				// A dateless record after parsed ones means the archive
				// has run past its dated span.
				c.Logger.Info("record unusable after dated records, stopping",
					"url", articleURL, "reason", reason.String())
				toContinue = false
				continue
			}
			c.Logger.Info("record unusable for cutoff", "url", articleURL, "reason", reason.String())
			continue
		}
		c.parsedAny = true

		if !c.Window.Contains(recordDate) {
			c.Logger.Info("reached the stop date",
				"url", articleURL, "date", recordDate.Format("2006-01-02"))
			toContinue = false
			continue
		}

		matchedPrimary, matchedSecondary := extract.Validate(
			rec.Text(), c.Params.PrimaryKeywords, c.Params.SecondaryKeywords)
		if !extract.ShouldPersist(matchedPrimary, matchedSecondary) {
			// In window but no concrete keyword match: processed, not saved.
			c.Logger.Info("record in window but not persisted", "url", articleURL)
			continue
		}

		row := storage.NewRecord(rec, articleURL, matchedPrimary, matchedSecondary)
		if err := c.Sink.Append(ctx, c.Table, row); err != nil {
			c.Logger.Error("persist failed", "url", articleURL, "error", err)
			continue
		}
		c.saved++
		c.Logger.Info("record saved", "url", articleURL, "total_saved", c.saved)
	}

	return toContinue, nil
}

// resolveURL resolves a listing href against the job's base URL.
func (c *Crawl) resolveURL(href string) (string, bool) {
	if href == "" {
		return "", false
	}
	base, err := url.Parse(c.Params.BaseURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme == "" || resolved.Host == "" {
		return "", false
	}
	return resolved.String(), true
}

// wait sleeps for d unless the context is cancelled first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
