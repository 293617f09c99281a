package ai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Khaliq12345/news-archive-bot/internal/config"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "Here you go:\n```json\n{\"a\":1}\n```", `{"a":1}`},
		{"nested", `noise {"a":{"b":2}} trailing`, `{"a":{"b":2}}`},
		{"no object", "sorry, nothing found", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractIntoOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"title":"Arrest made","date":"2025-01-10"}`}},
			},
		})
	}))
	defer srv.Close()

	c := New(config.AIConfig{
		Provider: "openai",
		Endpoint: srv.URL,
		Model:    "gpt-4o",
		APIKey:   "test-key",
	}, discard())

	var out struct {
		Title string `json:"title"`
		Date  string `json:"date"`
	}
	if err := c.ExtractInto(context.Background(), "instruction", "text", &out); err != nil {
		t.Fatal(err)
	}
	if out.Title != "Arrest made" || out.Date != "2025-01-10" {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestExtractIntoOpenAIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid api key"},
		})
	}))
	defer srv.Close()

	c := New(config.AIConfig{Provider: "openai", Endpoint: srv.URL}, discard())

	var out struct{}
	if err := c.ExtractInto(context.Background(), "i", "t", &out); err == nil {
		t.Fatal("backend error should propagate")
	}
}

func TestExtractIntoOllama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"response": `{"title":"Arrest made"}`,
		})
	}))
	defer srv.Close()

	c := New(config.AIConfig{Provider: "ollama", Endpoint: srv.URL, Model: "llama3"}, discard())

	var out struct {
		Title string `json:"title"`
	}
	if err := c.ExtractInto(context.Background(), "i", "t", &out); err != nil {
		t.Fatal(err)
	}
	if out.Title != "Arrest made" {
		t.Errorf("title = %q", out.Title)
	}
}

func TestExtractIntoNoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "I could not find anything."}},
			},
		})
	}))
	defer srv.Close()

	c := New(config.AIConfig{Provider: "openai", Endpoint: srv.URL}, discard())

	var out struct{}
	if err := c.ExtractInto(context.Background(), "i", "t", &out); err == nil {
		t.Fatal("reply without a JSON object should fail")
	}
}

func TestExtractIntoUnknownProvider(t *testing.T) {
	c := New(config.AIConfig{Provider: "telepathy"}, discard())
	var out struct{}
	if err := c.ExtractInto(context.Background(), "i", "t", &out); err == nil {
		t.Fatal("unknown provider should fail")
	}
}
