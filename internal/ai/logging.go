package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type loggingProvider struct {
	inner Provider
}

// WithLogging wraps p so every completion is logged with its purpose and latency.
func WithLogging(p Provider) Provider {
	return &loggingProvider{inner: p}
}

func (l *loggingProvider) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := l.inner.Complete(ctx, req)
	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("provider", l.inner.Name()).
		Str("model", req.Model).
		Str("purpose", PurposeFrom(ctx)).
		Dur("dur", time.Since(start)).
		Bool("ok", err == nil).
		Int("chars", len(out)).
		Msg("ai completion")
	return out, err
}

func (l *loggingProvider) Name() string { return l.inner.Name() }
