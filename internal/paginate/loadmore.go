package paginate

import (
	"context"
	"strings"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// loadMoreStrategy drives archives that grow the listing in place behind a
// "load more" control. Each step clicks the control, waits, and re-scrapes
// the cumulative listing. It stops when the control is no longer visible,
// when a step surfaces no articles not already seen by URL this run, or
// when the date window is crossed.
type loadMoreStrategy struct{}

func (s *loadMoreStrategy) Name() string { return "load_more" }

func (s *loadMoreStrategy) Run(ctx context.Context, c *Crawl) (int, error) {
	log := c.Logger.With("strategy", s.Name())

	log.Info("page loading", "url", c.Params.ArchiveURL)
	if err := c.Page.Navigate(c.Params.ArchiveURL); err != nil {
		return c.saved, err
	}
	if err := waitForListing(c); err != nil {
		return c.saved, err
	}

	seenHrefs := make(map[string]struct{})
	for c.Page.IsVisible(c.Params.NextSelector) {
		if err := ctx.Err(); err != nil {
			return c.saved, err
		}
		if err := c.Page.Click(c.Params.NextSelector); err != nil {
			log.Info("load-more control gone, stopping", "error", err)
			break
		}
		if err := wait(ctx, c.StepWait); err != nil {
			return c.saved, err
		}

		html, err := c.Page.Content()
		if err != nil {
			return c.saved, err
		}
		fresh := freshRefs(c.Lister.Extract(ctx, html), seenHrefs)
		if len(fresh) == 0 {
			log.Info("no new articles, stopping")
			break
		}
		log.Info("articles found", "new", len(fresh), "total", len(seenHrefs))

		cont, err := c.processBatch(ctx, fresh)
		if err != nil {
			return c.saved, err
		}
		if !cont {
			break
		}
	}
	return c.saved, nil
}

// freshRefs keeps only references whose raw URL has not been yielded yet
// this run, and records the rest. Cumulative listings re-surface everything
// already processed on every step.
func freshRefs(refs []types.ArticleReference, seen map[string]struct{}) []types.ArticleReference {
	var fresh []types.ArticleReference
	for _, ref := range refs {
		key := strings.ToLower(ref.URL)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, ref)
	}
	return fresh
}
