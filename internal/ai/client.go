// Package ai wraps the structured-extraction capability: given an
// instruction and page text, return JSON that unmarshals into the caller's
// schema struct, or fail. Malformed model output is an extraction failure,
// never a crash.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Khaliq12345/news-archive-bot/internal/config"
)

// Provider specifies which model backend to use.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderCustom Provider = "custom"
)

// Client communicates with a structured-extraction model.
type Client struct {
	cfg    config.AIConfig
	client *http.Client
	logger *slog.Logger
}

// New creates a new extraction client.
func New(cfg config.AIConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger.With("component", "ai_client"),
	}
}

// ExtractInto sends the instruction and text to the model and unmarshals
// the JSON reply into out. The reply is schema-validated by the unmarshal:
// anything that does not decode into out is an error.
func (c *Client) ExtractInto(ctx context.Context, instruction, text string, out any) error {
	raw, err := c.complete(ctx, instruction, text)
	if err != nil {
		return err
	}
	payload := extractJSON(raw)
	if payload == "" {
		return fmt.Errorf("no JSON object in model reply")
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}

func (c *Client) complete(ctx context.Context, instruction, text string) (string, error) {
	switch Provider(c.cfg.Provider) {
	case ProviderOpenAI:
		return c.completeOpenAI(ctx, instruction, text)
	case ProviderOllama:
		return c.completeOllama(ctx, instruction, text)
	case ProviderCustom:
		return c.completeCustom(ctx, instruction, text)
	default:
		return "", fmt.Errorf("unsupported extraction provider: %s", c.cfg.Provider)
	}
}

func (c *Client) completeOpenAI(ctx context.Context, instruction, text string) (string, error) {
	payload := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": instruction},
			{"role": "user", "content": text},
		},
		"max_tokens":      c.cfg.MaxTokens,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]string{"type": "json_object"},
	}

	body, _ := json.Marshal(payload)
	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("openai: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return result.Choices[0].Message.Content, nil
}

func (c *Client) completeOllama(ctx context.Context, instruction, text string) (string, error) {
	payload := map[string]any{
		"model":  c.cfg.Model,
		"prompt": instruction + "\n\n" + text,
		"stream": false,
		"format": "json",
		"options": map[string]any{
			"temperature": c.cfg.Temperature,
			"num_predict": c.cfg.MaxTokens,
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return result.Response, nil
}

func (c *Client) completeCustom(ctx context.Context, instruction, text string) (string, error) {
	payload := map[string]any{
		"model":  c.cfg.Model,
		"prompt": instruction + "\n\n" + text,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(respBody), nil
}

// extractJSON finds the first balanced JSON object in the model reply.
func extractJSON(s string) string {
	start := -1
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
