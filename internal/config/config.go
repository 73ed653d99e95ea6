// Package config reads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port string

	Provider string
	Model    string

	OpenRouterKey string
	OpenAIKey     string
	OpenAIBaseURL string
	AnthropicKey  string
	GeminiKey     string
	OllamaHost    string

	// AppURL and AppTitle identify this app to OpenRouter.
	AppURL   string
	AppTitle string

	VerifyTimeout   time.Duration
	GenerateTimeout time.Duration

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	ExportEnabled bool
	ExportFile    string

	LogLevel string
}

var providers = map[string]bool{
	"openrouter": true,
	"openai":     true,
	"ollama":     true,
	"anthropic":  true,
	"gemini":     true,
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.Provider = strings.ToLower(getenv("AI_PROVIDER", "openrouter"))
	c.Model = getenv("AI_MODEL", "deepseek/deepseek-chat-v3-0324:free")
	c.OpenRouterKey = os.Getenv("OPENROUTER_API_KEY")
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	c.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	c.GeminiKey = os.Getenv("GEMINI_API_KEY")
	c.OllamaHost = getenv("OLLAMA_HOST", "http://localhost:11434")
	c.AppURL = getenv("APP_URL", "http://localhost:5000")
	c.AppTitle = getenv("APP_TITLE", "Riddle Bot")
	c.VerifyTimeout = getDuration("VERIFY_TIMEOUT", 3*time.Second)
	c.GenerateTimeout = getDuration("GENERATE_TIMEOUT", 20*time.Second)
	c.SessionTTL = getDuration("SESSION_TTL", 2*time.Hour)
	c.SessionSweepInterval = getDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute)
	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./riddle-results.txt")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	return c
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if !providers[c.Provider] {
		return fmt.Errorf("unknown AI_PROVIDER %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("AI_MODEL cannot be empty")
	}
	for name, d := range map[string]time.Duration{
		"VERIFY_TIMEOUT":         c.VerifyTimeout,
		"GENERATE_TIMEOUT":       c.GenerateTimeout,
		"SESSION_TTL":            c.SessionTTL,
		"SESSION_SWEEP_INTERVAL": c.SessionSweepInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	if c.ExportEnabled && c.ExportFile == "" {
		return fmt.Errorf("EXPORT_FILE cannot be empty when export is enabled")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getDuration accepts Go durations ("3s") and falls back to def on parse errors.
func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
