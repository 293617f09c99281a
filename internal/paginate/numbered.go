package paginate

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// numberedStrategy walks archives whose pages are addressable directly by
// number, rewriting a page=N query or /page/N path segment and navigating.
// It stops when a rewritten URL resolves to the same effective URL as the
// previous step (redirect loop past the last page), when a page yields no
// articles, or when the date window is crossed.
type numberedStrategy struct{}

func (s *numberedStrategy) Name() string { return "numbered" }

func (s *numberedStrategy) Run(ctx context.Context, c *Crawl) (int, error) {
	log := c.Logger.With("strategy", s.Name())

	prevEffective := ""
	for pageNum := 1; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			return c.saved, err
		}

		pageURL := rewritePageURL(c.Params.ArchiveURL, pageNum)
		log.Info("page loading", "page", pageNum, "url", pageURL)
		if err := c.Page.Navigate(pageURL); err != nil {
			return c.saved, err
		}
		if err := waitForListing(c); err != nil {
			return c.saved, err
		}

		effective, err := c.Page.CurrentURL()
		if err == nil && effective != "" {
			if effective == prevEffective {
				log.Info("redirected to previous page, stopping", "url", effective)
				break
			}
			prevEffective = effective
		}

		html, err := c.Page.Content()
		if err != nil {
			return c.saved, err
		}
		refs := c.Lister.Extract(ctx, html)
		if len(refs) == 0 {
			log.Info("no articles found, stopping", "page", pageNum)
			break
		}

		cont, err := c.processBatch(ctx, refs)
		if err != nil {
			return c.saved, err
		}
		if !cont {
			break
		}
	}
	return c.saved, nil
}

// waitForListing blocks until the listing selector appears, when one is
// configured. XPath selectors are skipped; the load event already fired.
func waitForListing(c *Crawl) error {
	sel := c.Params.ListingSelector
	if sel == "" || strings.HasPrefix(sel, "xpath:") {
		return nil
	}
	return c.Page.WaitFor(sel)
}

var pagePathPattern = regexp.MustCompile(`/page/\d+`)

// rewritePageURL points the archive URL at the given page number. An
// existing page=N query or /page/N path segment is rewritten in place;
// otherwise page 1 is the archive URL itself and later pages append a
// page query parameter.
func rewritePageURL(archiveURL string, page int) string {
	u, err := url.Parse(archiveURL)
	if err != nil {
		return archiveURL
	}

	q := u.Query()
	if q.Has("page") {
		q.Set("page", strconv.Itoa(page))
		u.RawQuery = q.Encode()
		return u.String()
	}
	if pagePathPattern.MatchString(u.Path) {
		u.Path = pagePathPattern.ReplaceAllString(u.Path, "/page/"+strconv.Itoa(page))
		return u.String()
	}
	if page == 1 {
		return archiveURL
	}
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
