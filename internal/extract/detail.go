package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/Khaliq12345/news-archive-bot/internal/store"
	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

const detailInstruction = `Extract the article detail info from the text.
Return a JSON object with fields: "title", "date" (the full article date, format YYYY-MM-DD),
"content" (a summary of the article), "suspect_name", "age" (number), "officer_involved",
"location", "department", "state", "year" (number) and "charge".
Use null for any field not found.`

// maxExtractChars bounds the text handed to the model per article.
const maxExtractChars = 12000

// PageFetcher retrieves one article page as HTML.
type PageFetcher interface {
	FetchHTML(ctx context.Context, rawURL string) (string, error)
}

// DetailExtractor fetches one article URL and produces a detail record, or
// nothing. Entry is gated by the seen-URL ledger; the URL is marked seen as
// soon as the fetch succeeds, before any date or keyword evaluation, so it
// is never retried even when it later falls outside the window.
type DetailExtractor struct {
	fetcher  PageFetcher
	llm      StructuredExtractor
	seen     *store.SeenURLs
	selector string // article-body selector; empty means readable full page
	logger   *slog.Logger
}

// NewDetailExtractor builds a detail extractor for one job.
func NewDetailExtractor(fetcher PageFetcher, llm StructuredExtractor, seen *store.SeenURLs, selector string, logger *slog.Logger) *DetailExtractor {
	return &DetailExtractor{
		fetcher:  fetcher,
		llm:      llm,
		seen:     seen,
		selector: selector,
		logger:   logger.With("component", "detail_extractor"),
	}
}

// Fetch returns the extracted record for articleURL, or nil when the URL
// was already processed or is not keyword-relevant. Errors are per-article:
// the caller logs and moves on.
func (e *DetailExtractor) Fetch(ctx context.Context, articleURL string, primary, secondary []string) (*types.DetailRecord, error) {
	if e.seen.Has(articleURL) {
		e.logger.Info("article already parsed", "url", articleURL)
		return nil, nil
	}

	html, err := e.fetcher.FetchHTML(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	text, err := e.pageText(articleURL, html)
	if err != nil {
		return nil, &types.ExtractError{Stage: "detail", URL: articleURL, Err: err}
	}

	if err := e.seen.Mark(articleURL); err != nil {
		return nil, fmt.Errorf("mark seen: %w", err)
	}

	// Permissive gate: an empty tier is no constraint. Irrelevant pages
	// are still counted as processed above.
	if !Relevant(text, primary, secondary) {
		e.logger.Info("article not keyword-relevant", "url", articleURL)
		return nil, nil
	}

	instruction := detailInstruction
	if e.selector == "" && len(secondary) > 0 {
		instruction += fmt.Sprintf(
			"\nWhen reporting keywords, only use secondary keywords from this list that verifiably appear in the text: %s.",
			strings.Join(secondary, ", "))
	}

	if len(text) > maxExtractChars {
		text = text[:maxExtractChars]
	}

	var rec types.DetailRecord
	if err := e.llm.ExtractInto(ctx, instruction, text, &rec); err != nil {
		return nil, &types.ExtractError{Stage: "detail", URL: articleURL, Err: err}
	}
	return &rec, nil
}

// pageText converts the fetched page to plain text: the selected region
// when a selector is configured, otherwise the readable article body with
// a markdown rendering as fallback.
func (e *DetailExtractor) pageText(articleURL, html string) (string, error) {
	if e.selector != "" {
		return regionText(html, e.selector)
	}

	pageURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.TextContent, nil
	}
	return Markdown(html)
}

func regionText(html, selector string) (string, error) {
	if strings.HasPrefix(selector, xpathPrefix) {
		doc, err := htmlquery.Parse(strings.NewReader(html))
		if err != nil {
			return "", err
		}
		nodes, err := htmlquery.QueryAll(doc, strings.TrimPrefix(selector, xpathPrefix))
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, n := range nodes {
			b.WriteString(htmlquery.InnerText(n))
			b.WriteByte(' ')
		}
		return squash(b.String()), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		b.WriteString(sel.Text())
		b.WriteByte(' ')
	})
	return squash(b.String()), nil
}
