package paginate

import "context"

// infiniteScrollStrategy drives archives that append content as the page
// scrolls. There is no control to test: the loop is driven purely by
// content growth and stops when a scroll step surfaces no articles not
// already seen by URL, or when the date window is crossed.
type infiniteScrollStrategy struct{}

func (s *infiniteScrollStrategy) Name() string { return "infinite_scroll" }

func (s *infiniteScrollStrategy) Run(ctx context.Context, c *Crawl) (int, error) {
	log := c.Logger.With("strategy", s.Name())

	log.Info("page loading", "url", c.Params.ArchiveURL)
	if err := c.Page.Navigate(c.Params.ArchiveURL); err != nil {
		return c.saved, err
	}
	if err := waitForListing(c); err != nil {
		return c.saved, err
	}

	seenHrefs := make(map[string]struct{})
	for {
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

		if err := c.Page.ScrollToEnd(); err != nil {
			return c.saved, err
		}
		if err := c.Page.PressEnd(); err != nil {
			return c.saved, err
		}
	}
	return c.saved, nil
}
