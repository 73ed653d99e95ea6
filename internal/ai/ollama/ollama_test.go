package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiliankoe/riddlebot/internal/ai"
)

func TestComplete(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":{"role":"assistant","content":" false\n"},"done":true}`))
	}))
	defer server.Close()

	c := New(server.URL + "/")
	out, err := c.Complete(context.Background(), ai.Request{
		Model:       "llama3",
		System:      "judge",
		Prompt:      "is it right?",
		MaxTokens:   10,
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "false" {
		t.Fatalf("expected trimmed content, got %q", out)
	}
	if got["model"] != "llama3" || got["stream"] != false {
		t.Fatalf("unexpected payload: %v", got)
	}
	opts, _ := got["options"].(map[string]any)
	if opts["num_predict"] != float64(10) || opts["temperature"] != 0.1 {
		t.Fatalf("unexpected options: %v", opts)
	}
	if msgs, _ := got["messages"].([]any); len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", got["messages"])
	}
}

func TestCompleteStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := New(server.URL).Complete(context.Background(), ai.Request{Model: "m", Prompt: "p"}); err == nil {
		t.Fatal("expected error on non-2xx")
	}
}

func TestNewDefaultHost(t *testing.T) {
	if c := New(""); c.Host != "http://localhost:11434" {
		t.Fatalf("unexpected default host %q", c.Host)
	}
}
