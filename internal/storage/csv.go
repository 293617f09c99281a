package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// csvColumns is the persisted row layout, one column per Record field.
var csvColumns = []string{
	"Date Found", "Article Url", "Title", "Date", "Content",
	"Suspect Name", "Age", "Officer Involved", "Location", "Department",
	"State", "Year", "Charge", "Primary Keywords", "Secondary Keywords",
}

// CSVSink appends records to one CSV file per domain table under a common
// directory. The header row is written when a table file is first created;
// re-opening an existing table is not an error.
type CSVSink struct {
	mu     sync.Mutex
	dir    string
	open   map[string]*csvTable
	logger *slog.Logger
}

type csvTable struct {
	f *os.File
	w *csv.Writer
}

// NewCSVSink creates a sink rooted at dir.
func NewCSVSink(dir string, logger *slog.Logger) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &CSVSink{
		dir:    dir,
		open:   make(map[string]*csvTable),
		logger: logger.With("component", "csv_sink"),
	}, nil
}

// Append writes one record row to the table's file.
func (s *CSVSink) Append(_ context.Context, table string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return err
	}

	row := []string{
		rec.DateFound, rec.ArticleURL, rec.Title, rec.Date, rec.Content,
		rec.SuspectName, rec.Age, rec.OfficerInvolved, rec.Location, rec.Department,
		rec.State, rec.Year, rec.Charge, rec.PrimaryKeywords, rec.SecondaryKeywords,
	}
	if err := t.w.Write(row); err != nil {
		return fmt.Errorf("append to %s: %w", table, err)
	}
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", table, err)
	}
	s.logger.Debug("record appended", "table", table, "url", rec.ArticleURL)
	return nil
}

// table opens (creating if needed) the file backing a table.
func (s *CSVSink) table(name string) (*csvTable, error) {
	if t, ok := s.open[name]; ok {
		return t, nil
	}

	path := filepath.Join(s.dir, sanitizeTableName(name)+".csv")
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", name, err)
	}

	t := &csvTable{f: f, w: csv.NewWriter(f)}
	if isNew {
		if err := t.w.Write(csvColumns); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header for %s: %w", name, err)
		}
		t.w.Flush()
	}
	s.open[name] = t
	return t, nil
}

// Close flushes and closes every open table.
func (s *CSVSink) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, t := range s.open {
		t.w.Flush()
		if err := t.f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close table %s: %w", name, err)
		}
		delete(s.open, name)
	}
	return firstErr
}

func sanitizeTableName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
