// Package fetcher retrieves article detail pages over plain HTTP. Listing
// pages need the rendered DOM and go through the browser session instead.
package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/Khaliq12345/news-archive-bot/internal/config"
	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// Client is an HTTP page fetcher with manual content decompression.
type Client struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// New creates a fetcher from the given configuration.
func New(cfg config.FetcherConfig, logger *slog.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		// Decompression is handled here, including brotli.
		DisableCompression: true,
	}
	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		logger:    logger.With("component", "http_fetcher"),
	}
}

// FetchHTML retrieves rawURL and returns the decoded body. The blocking
// call runs in a one-shot worker so the caller's cancellation point is not
// held hostage by a stuck connection; there is exactly one in-flight fetch
// at a time.
func (c *Client) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	type result struct {
		body string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		body, err := c.fetch(ctx, rawURL)
		ch <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", &types.FetchError{URL: rawURL, Err: ctx.Err()}
	case r := <-ch:
		return r.body, r.err
	}
}

func (c *Client) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &types.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &types.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &types.FetchError{URL: rawURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	reader, err := decompressReader(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return "", &types.FetchError{URL: rawURL, Err: err}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", &types.FetchError{URL: rawURL, Err: err}
	}

	c.logger.Info("fetched",
		"url", rawURL,
		"status", resp.StatusCode,
		"size", len(body),
		"duration", time.Since(start),
	)
	return string(body), nil
}

// decompressReader wraps the body reader for gzip, deflate, and brotli (br)
// encodings.
func decompressReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip":
		return gzip.NewReader(r)
	case "deflate":
		return flate.NewReader(r), nil
	case "br":
		return brotli.NewReader(r), nil
	default:
		return r, nil
	}
}
