package storage

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestCSVSinkAppend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	sink, err := NewCSVSink(dir, discard())
	if err != nil {
		t.Fatal(err)
	}

	rec := Record{
		ArticleURL: "https://example.com/a",
		Title:      "Arrest made",
		Date:       "2025-01-10",
	}
	if err := sink.Append(ctx, "example.com", rec); err != nil {
		t.Fatal(err)
	}
	if err := sink.Append(ctx, "example.com", rec); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(ctx); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, filepath.Join(dir, "example.com.csv"))
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "Date Found" || rows[0][2] != "Title" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][2] != "Arrest made" || rows[1][3] != "2025-01-10" {
		t.Errorf("unexpected row: %v", rows[1])
	}
}

func TestCSVSinkHeaderWrittenOnce(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	rec := Record{ArticleURL: "https://example.com/a"}

	// Two sink lifetimes over the same table file.
	for i := 0; i < 2; i++ {
		sink, err := NewCSVSink(dir, discard())
		if err != nil {
			t.Fatal(err)
		}
		if err := sink.Append(ctx, "example.com", rec); err != nil {
			t.Fatal(err)
		}
		if err := sink.Close(ctx); err != nil {
			t.Fatal(err)
		}
	}

	rows := readCSV(t, filepath.Join(dir, "example.com.csv"))
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[2][0] == "Date Found" {
		t.Error("header repeated on reopen")
	}
}

func TestCSVSinkSeparateTables(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	sink, err := NewCSVSink(dir, discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Append(ctx, "one.example.com", Record{}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Append(ctx, "two.example.com", Record{}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(ctx); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"one.example.com.csv", "two.example.com.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("table file %s: %v", name, err)
		}
	}
}

func TestTableName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://WWW.Example.com/news", "www.example.com"},
		{"https://example.com:8080/", "example.com"},
		{"plainstring", "plainstring"},
	}
	for _, tt := range tests {
		if got := TableName(tt.in); got != tt.want {
			t.Errorf("TableName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRecord(t *testing.T) {
	title := "Arrest made"
	age := 34
	rec := NewRecord(&types.DetailRecord{Title: &title, Age: &age},
		"https://example.com/a", []string{"arrest"}, []string{"shooting", "charge"})

	if rec.Title != "Arrest made" || rec.Age != "34" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.PrimaryKeywords != "arrest" || rec.SecondaryKeywords != "shooting;charge" {
		t.Errorf("keywords not joined: %+v", rec)
	}
	if rec.ArticleURL != "https://example.com/a" {
		t.Errorf("url = %q", rec.ArticleURL)
	}
	if rec.DateFound == "" {
		t.Error("date found should be stamped")
	}
}
