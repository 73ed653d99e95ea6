package main

import (
	"context"
	"fmt"

	"github.com/kiliankoe/riddlebot/internal/ai"
	"github.com/kiliankoe/riddlebot/internal/ai/anthropic"
	"github.com/kiliankoe/riddlebot/internal/ai/gemini"
	"github.com/kiliankoe/riddlebot/internal/ai/ollama"
	"github.com/kiliankoe/riddlebot/internal/ai/openai"
	"github.com/kiliankoe/riddlebot/internal/config"
)

func newProvider(ctx context.Context, cfg config.Config) (ai.Provider, error) {
	switch cfg.Provider {
	case "openrouter":
		return openai.New(openai.Config{
			APIKey:  cfg.OpenRouterKey,
			BaseURL: openai.OpenRouterBaseURL,
			Referer: cfg.AppURL,
			Title:   cfg.AppTitle,
			Name:    "openrouter",
		})
	case "openai":
		return openai.New(openai.Config{APIKey: cfg.OpenAIKey, BaseURL: cfg.OpenAIBaseURL})
	case "ollama":
		return ollama.New(cfg.OllamaHost), nil
	case "anthropic":
		return anthropic.New(cfg.AnthropicKey)
	case "gemini":
		return gemini.New(ctx, cfg.GeminiKey)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
