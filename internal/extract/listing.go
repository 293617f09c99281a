// Package extract turns rendered pages into article references and detail
// records: selector scraping, markdown conversion, keyword validation,
// date parsing, and delegation to the structured-extraction model.
package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"github.com/Khaliq12345/news-archive-bot/internal/store"
	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// xpathPrefix marks a selector as an XPath expression rather than CSS.
const xpathPrefix = "xpath:"

const listingInstruction = `Extract the articles in the listing.
Return a JSON object with key "data": a list of objects with fields "title", "url" and "date".
Use an empty string for any field not present. Only include entries that link to an article.`

// StructuredExtractor is the model capability the extractors delegate to.
type StructuredExtractor interface {
	ExtractInto(ctx context.Context, instruction, text string, out any) error
}

// ListingExtractor returns the candidate article references on one rendered
// listing page. With a selector it scrapes anchors directly; without one it
// renders the page to markdown and delegates to the model. Failures are
// logged and yield zero results, so the strategy's empty-result termination
// rule applies.
type ListingExtractor struct {
	selector string
	llm      StructuredExtractor
	chunks   *store.ChunkSet // nil disables content-chunk dedup
	logger   *slog.Logger
}

// NewListingExtractor builds an extractor. selector empty means inference
// mode; chunks, when non-nil, filters already-seen content fragments before
// each delegation to bound token cost on re-rendered pages.
func NewListingExtractor(selector string, llm StructuredExtractor, chunks *store.ChunkSet, logger *slog.Logger) *ListingExtractor {
	return &ListingExtractor{
		selector: selector,
		llm:      llm,
		chunks:   chunks,
		logger:   logger.With("component", "listing_extractor"),
	}
}

// Extract returns the article references found in html.
func (e *ListingExtractor) Extract(ctx context.Context, html string) []types.ArticleReference {
	if e.selector != "" {
		return e.extractSelector(html)
	}
	return e.extractInference(ctx, html)
}

func (e *ListingExtractor) extractSelector(html string) []types.ArticleReference {
	if strings.HasPrefix(e.selector, xpathPrefix) {
		return e.extractXPath(html, strings.TrimPrefix(e.selector, xpathPrefix))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Warn("listing parse failed", "error", err)
		return nil
	}

	var refs []types.ArticleReference
	doc.Find(e.selector).Each(func(_ int, sel *goquery.Selection) {
		anchor := sel
		if !sel.Is("a") {
			anchor = sel.Find("a").First()
		}
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return
		}
		refs = append(refs, types.ArticleReference{
			Title: squash(sel.Text()),
			URL:   href,
		})
	})
	return refs
}

func (e *ListingExtractor) extractXPath(html, expr string) []types.ArticleReference {
	doc, err := htmlquery.Parse(strings.NewReader(html))
	if err != nil {
		e.logger.Warn("listing parse failed", "error", err)
		return nil
	}
	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		e.logger.Warn("listing xpath failed", "xpath", expr, "error", err)
		return nil
	}

	var refs []types.ArticleReference
	for _, n := range nodes {
		anchor := n
		if n.Data != "a" {
			anchor = htmlquery.FindOne(n, "//a")
			if anchor == nil {
				continue
			}
		}
		href := htmlquery.SelectAttr(anchor, "href")
		if href == "" {
			continue
		}
		refs = append(refs, types.ArticleReference{
			Title: squash(htmlquery.InnerText(n)),
			URL:   href,
		})
	}
	return refs
}

func (e *ListingExtractor) extractInference(ctx context.Context, html string) []types.ArticleReference {
	md, err := Markdown(html)
	if err != nil {
		e.logger.Warn("listing render failed", "error", err)
		return nil
	}

	lines := Lines(md)
	if e.chunks != nil {
		before := len(lines)
		lines = e.chunks.Filter(lines)
		e.logger.Debug("chunk filter", "before", before, "after", len(lines))
	}
	if len(lines) == 0 {
		return nil
	}

	var result struct {
		Data []types.ArticleReference `json:"data"`
	}
	if err := e.llm.ExtractInto(ctx, listingInstruction, strings.Join(lines, "\n"), &result); err != nil {
		e.logger.Warn("listing extraction failed", "error", err)
		return nil
	}

	refs := result.Data[:0]
	for _, ref := range result.Data {
		if ref.URL != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
