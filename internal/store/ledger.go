// Package store holds the per-job persistent state: the append-only seen-URL
// ledger, the transient content-chunk hash set, and the progress file.
package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SeenURLs is the per-job ledger of article URLs already processed. It is
// append-only, case-insensitive, and persists across job runs for the same
// key so a crawl can resume without re-fetching.
type SeenURLs struct {
	mu   sync.Mutex
	path string
	seen map[string]struct{}
	f    *os.File // opened lazily on first write
}

// OpenSeenURLs loads (or lazily creates) the ledger for jobKey under dir.
func OpenSeenURLs(dir, jobKey string) (*SeenURLs, error) {
	s := &SeenURLs{
		path: filepath.Join(dir, jobKey+".txt"),
		seen: make(map[string]struct{}),
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("open url ledger: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			s.seen[strings.ToLower(line)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url ledger: %w", err)
	}
	return s, nil
}

// Has reports whether rawURL was already processed for this job key.
func (s *SeenURLs) Has(rawURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[strings.ToLower(rawURL)]
	return ok
}

// Mark appends rawURL to the ledger. The write happens before any date or
// keyword evaluation, so a URL is never retried even when it later fails
// the window test.
func (s *SeenURLs) Mark(rawURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(rawURL)
	if _, ok := s.seen[key]; ok {
		return nil
	}

	if s.f == nil {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open url ledger: %w", err)
		}
		s.f = f
	}
	if _, err := s.f.WriteString(rawURL + "\n"); err != nil {
		return fmt.Errorf("append url ledger: %w", err)
	}
	s.seen[key] = struct{}{}
	return nil
}

// Len returns the number of distinct URLs in the ledger.
func (s *SeenURLs) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Close releases the underlying file, if one was opened.
func (s *SeenURLs) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
