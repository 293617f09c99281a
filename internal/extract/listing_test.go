package extract

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/Khaliq12345/news-archive-bot/internal/store"
	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const listingHTML = `<html><body><div id="posts">
	<div class="post"><h2><a href="/news/alpha">Alpha arrest</a></h2><span>2025-01-10</span></div>
	<div class="post"><h2><a href="/news/beta">Beta charge</a></h2><span>2025-01-05</span></div>
	<div class="post"><h2>No link here</h2></div>
</div></body></html>`

func TestExtractCSSSelector(t *testing.T) {
	e := NewListingExtractor("div.post", nil, nil, discard())

	refs := e.Extract(context.Background(), listingHTML)
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2: %+v", len(refs), refs)
	}
	if refs[0].URL != "/news/alpha" || refs[1].URL != "/news/beta" {
		t.Errorf("unexpected urls: %+v", refs)
	}
	if refs[0].Title == "" {
		t.Error("title should carry the element text")
	}
}

func TestExtractCSSSelectorDirectAnchor(t *testing.T) {
	e := NewListingExtractor("div.post a", nil, nil, discard())

	refs := e.Extract(context.Background(), listingHTML)
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2: %+v", len(refs), refs)
	}
	if refs[0].Title != "Alpha arrest" {
		t.Errorf("title = %q", refs[0].Title)
	}
}

func TestExtractXPathSelector(t *testing.T) {
	e := NewListingExtractor("xpath://div[@class='post']", nil, nil, discard())

	refs := e.Extract(context.Background(), listingHTML)
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2: %+v", len(refs), refs)
	}
	if refs[0].URL != "/news/alpha" {
		t.Errorf("url = %q", refs[0].URL)
	}
}

// fakeLLM replays a canned JSON payload into the out parameter and records
// the text it was shown.
type fakeLLM struct {
	payload string
	texts   []string
}

func (f *fakeLLM) ExtractInto(_ context.Context, _, text string, out any) error {
	f.texts = append(f.texts, text)
	return json.Unmarshal([]byte(f.payload), out)
}

func TestExtractInference(t *testing.T) {
	llm := &fakeLLM{payload: `{"data":[
		{"title":"Alpha arrest","url":"/news/alpha","date":"2025-01-10"},
		{"title":"","url":"","date":""}
	]}`}
	e := NewListingExtractor("", llm, nil, discard())

	refs := e.Extract(context.Background(), listingHTML)
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1 (blank url dropped): %+v", len(refs), refs)
	}
	if refs[0] != (types.ArticleReference{Title: "Alpha arrest", URL: "/news/alpha", Date: "2025-01-10"}) {
		t.Errorf("unexpected ref: %+v", refs[0])
	}
}

func TestExtractInferenceChunkDedup(t *testing.T) {
	llm := &fakeLLM{payload: `{"data":[]}`}
	chunks := store.NewChunkSet()
	e := NewListingExtractor("", llm, chunks, discard())

	e.Extract(context.Background(), listingHTML)
	// The same page re-rendered contributes nothing new, so the model is
	// not called a second time.
	e.Extract(context.Background(), listingHTML)

	if len(llm.texts) != 1 {
		t.Fatalf("model called %d times, want 1", len(llm.texts))
	}
}
