package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kiliankoe/riddlebot/internal/ai"
)

func newTestClient(t *testing.T, cfg Config, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL + "/v1/"
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	})
}

func TestComplete_HappyPath(t *testing.T) {
	var body struct {
		Model       string  `json:"model"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var referer, title, auth string
	c := newTestClient(t, Config{Referer: "http://localhost:5000", Title: "Riddle Bot", Name: "openrouter"},
		func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			referer = r.Header.Get("HTTP-Referer")
			title = r.Header.Get("X-Title")
			auth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&body)
			writeCompletion(w, "  true \n")
		})

	out, err := c.Complete(context.Background(), ai.Request{
		Model:       "test-model",
		System:      "judge",
		Prompt:      "is it right?",
		MaxTokens:   10,
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "true" {
		t.Fatalf("expected trimmed content, got %q", out)
	}
	if c.Name() != "openrouter" {
		t.Fatalf("expected name openrouter, got %q", c.Name())
	}
	if referer != "http://localhost:5000" || title != "Riddle Bot" {
		t.Fatalf("attribution headers missing: referer=%q title=%q", referer, title)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if body.Model != "test-model" || body.MaxTokens != 10 {
		t.Fatalf("unexpected request body: %+v", body)
	}
	if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Content != "is it right?" {
		t.Fatalf("unexpected messages: %+v", body.Messages)
	}
}

func TestComplete_NoSystemPrompt(t *testing.T) {
	var roles []string
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		for _, m := range body.Messages {
			roles = append(roles, m.Role)
		}
		if r.Header.Get("X-Title") != "" {
			t.Errorf("X-Title should be omitted when unset")
		}
		writeCompletion(w, "riddle")
	})

	if _, err := c.Complete(context.Background(), ai.Request{Model: "m", Prompt: "go"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roles) != 1 || roles[0] != "user" {
		t.Fatalf("expected a single user message, got %v", roles)
	}
	if c.Name() != "openai" {
		t.Fatalf("expected default name openai, got %q", c.Name())
	}
}

func TestComplete_ServerError(t *testing.T) {
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "slow down", "type": "rate_limit"},
		})
	})

	_, err := c.Complete(context.Background(), ai.Request{Model: "m", Prompt: "go"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
	})

	if _, err := c.Complete(context.Background(), ai.Request{Model: "m", Prompt: "go"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNew_MissingKey(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ai.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
