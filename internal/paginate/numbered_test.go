package paginate

import (
	"context"
	"testing"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

func TestRewritePageURL(t *testing.T) {
	tests := []struct {
		name    string
		archive string
		page    int
		want    string
	}{
		{"query rewrite", "https://example.com/archive?page=1", 3, "https://example.com/archive?page=3"},
		{"query rewrite keeps others", "https://example.com/archive?cat=news&page=2", 5, "https://example.com/archive?cat=news&page=5"},
		{"path rewrite", "https://example.com/news/page/1", 4, "https://example.com/news/page/4"},
		{"path rewrite with suffix", "https://example.com/news/page/2/latest", 7, "https://example.com/news/page/7/latest"},
		{"no page marker, page one verbatim", "https://example.com/archive", 1, "https://example.com/archive"},
		{"no page marker, later pages append", "https://example.com/archive", 2, "https://example.com/archive?page=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePageURL(tt.archive, tt.page); got != tt.want {
				t.Errorf("rewritePageURL(%q, %d) = %q, want %q", tt.archive, tt.page, got, tt.want)
			}
		})
	}
}

func TestNumberedStopsOnRedirectLoop(t *testing.T) {
	// Page 3 does not exist; the site redirects it back to page 2. The
	// crawl must notice the repeated effective URL and stop after two pages.
	page := &fakeBrowser{
		htmlByURL: map[string]string{
			"https://example.com/archive?page=1": "p1",
			"https://example.com/archive?page=2": "p2",
		},
		redirects: map[string]string{
			"https://example.com/archive?page=3": "https://example.com/archive?page=2",
		},
	}
	lister := &fakeLister{byHTML: map[string][]types.ArticleReference{
		"p1": refsFor("/a1", "/a2"),
		"p2": refsFor("/a3"),
	}}
	details := &fakeDetails{byURL: map[string]*types.DetailRecord{
		"https://example.com/a1": rec("2025-01-20"),
		"https://example.com/a2": rec("2025-01-15"),
		"https://example.com/a3": rec("2025-01-10"),
	}}
	sink := &memSink{}
	c := newTestCrawl(t, page, lister, details, sink, types.JobParameters{
		ArchiveURL: "https://example.com/archive?page=1",
		Strategy:   types.StrategyNumbered,
	})

	saved, err := (&numberedStrategy{}).Run(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if saved != 3 {
		t.Errorf("saved = %d, want 3", saved)
	}
	if len(details.calls) != 3 {
		t.Errorf("fetched %d articles, want 3", len(details.calls))
	}
}

func TestNumberedStopsOnEmptyPage(t *testing.T) {
	page := &fakeBrowser{
		htmlByURL: map[string]string{
			"https://example.com/archive":        "p1",
			"https://example.com/archive?page=2": "empty",
		},
	}
	lister := &fakeLister{byHTML: map[string][]types.ArticleReference{
		"p1": refsFor("/a1"),
	}}
	details := &fakeDetails{byURL: map[string]*types.DetailRecord{
		"https://example.com/a1": rec("2025-01-20"),
	}}
	sink := &memSink{}
	c := newTestCrawl(t, page, lister, details, sink, types.JobParameters{
		ArchiveURL: "https://example.com/archive",
		Strategy:   types.StrategyNumbered,
	})

	saved, err := (&numberedStrategy{}).Run(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if saved != 1 {
		t.Errorf("saved = %d, want 1", saved)
	}
}

func TestNumberedStopsAtWindow(t *testing.T) {
	page := &fakeBrowser{
		htmlByURL: map[string]string{
			"https://example.com/archive":        "p1",
			"https://example.com/archive?page=2": "p2",
		},
	}
	lister := &fakeLister{byHTML: map[string][]types.ArticleReference{
		"p1": refsFor("/a1"),
		"p2": refsFor("/a2"),
	}}
	details := &fakeDetails{byURL: map[string]*types.DetailRecord{
		"https://example.com/a1": rec("2024-12-20"), // before the window
		"https://example.com/a2": rec("2024-12-01"),
	}}
	sink := &memSink{}
	c := newTestCrawl(t, page, lister, details, sink, types.JobParameters{
		ArchiveURL: "https://example.com/archive",
		Strategy:   types.StrategyNumbered,
	})

	saved, err := (&numberedStrategy{}).Run(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if saved != 0 {
		t.Errorf("saved = %d, want 0", saved)
	}
	// Page 2 was never requested.
	if len(details.calls) != 1 {
		t.Errorf("fetched %d articles, want 1", len(details.calls))
	}
}
