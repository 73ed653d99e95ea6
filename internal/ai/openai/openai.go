package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kiliankoe/riddlebot/internal/ai"
	openai "github.com/sashabaranov/go-openai"
)

const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

type Config struct {
	APIKey  string
	BaseURL string
	// Referer and Title are sent as HTTP-Referer and X-Title, which OpenRouter
	// uses for app attribution. Empty values are omitted.
	Referer string
	Title   string
	// Name is reported by Name(); defaults to "openai".
	Name string
}

// Client talks to OpenAI or any OpenAI-compatible chat completions API.
type Client struct {
	client *openai.Client
	name   string
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ai.ErrMissingAPIKey
	}
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	headers := map[string]string{}
	if cfg.Referer != "" {
		headers["HTTP-Referer"] = cfg.Referer
	}
	if cfg.Title != "" {
		headers["X-Title"] = cfg.Title
	}
	conf.HTTPClient = &http.Client{
		Timeout:   20 * time.Second,
		Transport: &headerTransport{base: http.DefaultTransport, headers: headers},
	}
	name := cfg.Name
	if name == "" {
		name = "openai"
	}
	return &Client{client: openai.NewClientWithConfig(conf), name: name}, nil
}

func (c *Client) Name() string { return c.name }

func (c *Client) Complete(ctx context.Context, req ai.Request) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%s status %d: %w", c.name, apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.base.RoundTrip(r)
	}
	r = r.Clone(r.Context())
	for k, v := range t.headers {
		r.Header.Set(k, v)
	}
	return t.base.RoundTrip(r)
}
