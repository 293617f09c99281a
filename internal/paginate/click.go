package paginate

import "context"

// clickStrategy reloads the archive page each step, presses a
// caller-specified control (or simulates scroll-to-end when none is given)
// and re-scrapes. In inference mode the lister carries content-chunk dedup,
// so repeatedly rendered fragments are subtracted before listing
// extraction. It stops when a step surfaces no articles not already seen by
// URL this run, when the date window is crossed, or on an unrecoverable
// step error.
type clickStrategy struct{}

func (s *clickStrategy) Name() string { return "click" }

func (s *clickStrategy) Run(ctx context.Context, c *Crawl) (int, error) {
	log := c.Logger.With("strategy", s.Name())

	seenHrefs := make(map[string]struct{})
	for step := 1; ; step++ {
		if err := ctx.Err(); err != nil {
			return c.saved, err
		}

		log.Info("page reloading", "step", step, "url", c.Params.ArchiveURL)
		if err := c.Page.Navigate(c.Params.ArchiveURL); err != nil {
			return c.saved, err
		}
		if err := waitForListing(c); err != nil {
			return c.saved, err
		}

		if c.Params.NextSelector != "" {
			if err := c.Page.Click(c.Params.NextSelector); err != nil {
				return c.saved, err
			}
		} else {
			if err := c.Page.ScrollToEnd(); err != nil {
				return c.saved, err
			}
		}
		if err := wait(ctx, c.StepWait); err != nil {
			return c.saved, err
		}

		html, err := c.Page.Content()
		if err != nil {
			return c.saved, err
		}
		// A reloaded page re-renders everything already handled; without
		// this dedup an unchanged listing would keep the loop alive forever.
		fresh := freshRefs(c.Lister.Extract(ctx, html), seenHrefs)
		if len(fresh) == 0 {
			log.Info("no new articles, stopping", "step", step)
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
