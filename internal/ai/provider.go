package ai

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned by hosted providers constructed without credentials.
var ErrMissingAPIKey = errors.New("missing api key")

// Request is a single-turn completion request.
type Request struct {
	Model  string
	System string
	Prompt string

	// MaxTokens and Temperature are left to the provider default when zero.
	MaxTokens   int
	Temperature float64
}

type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

type contextKey string

const purposeKey contextKey = "ai_purpose"

// WithPurpose labels outgoing completions for request logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
