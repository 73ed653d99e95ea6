package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kiliankoe/riddlebot/internal/ai"
)

const (
	DefaultVerifyTimeout = 3 * time.Second

	verifyMaxTokens   = 10
	verifyTemperature = 0.1

	verifySystemPrompt = `Check if the user's answer matches the correct answer for the riddle.
Respond only with 'true' or 'false'.`
)

// ErrEmptyVerdict is returned when the model produced no text at all.
var ErrEmptyVerdict = errors.New("empty verdict")

// Verdict is the outcome of an AI verification.
type Verdict int

const (
	// VerdictUnknown means the verifier could not reach a decision.
	VerdictUnknown Verdict = iota
	VerdictIncorrect
	VerdictCorrect
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// FailClosed is the policy for turning a verdict into a decision: anything
// short of an explicit correct verdict is treated as wrong.
func FailClosed(v Verdict) bool {
	return v == VerdictCorrect
}

// Query is one answer to verify.
type Query struct {
	Question string
	Correct  string
	User     string
}

// Verifier asks a language model whether an answer is acceptable.
type Verifier struct {
	provider ai.Provider
	model    string
	timeout  time.Duration
}

func NewVerifier(p ai.Provider, model string, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	return &Verifier{provider: p, model: model, timeout: timeout}
}

// Verify makes a single bounded call. A non-nil error always comes with
// VerdictUnknown.
func (v *Verifier) Verify(ctx context.Context, q Query) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ai.WithPurpose(ctx, "verify"), v.timeout)
	defer cancel()

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := v.provider.Complete(ctx, ai.Request{
			Model:       v.model,
			System:      verifySystemPrompt,
			Prompt:      verifyPrompt(q),
			MaxTokens:   verifyMaxTokens,
			Temperature: verifyTemperature,
		})
		done <- result{out, err}
	}()

	// Providers that ignore ctx still cannot hold the caller past the timeout.
	var out string
	var err error
	select {
	case r := <-done:
		out, err = r.out, r.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		return VerdictUnknown, fmt.Errorf("verify answer: %w", err)
	}
	out = strings.ToLower(strings.TrimSpace(out))
	if out == "" {
		return VerdictUnknown, ErrEmptyVerdict
	}
	if out == "true" {
		return VerdictCorrect, nil
	}
	return VerdictIncorrect, nil
}

func verifyPrompt(q Query) string {
	return fmt.Sprintf(`Riddle: %s
Correct Answer: %s
User Answer: %s

Is this correct? Respond only with 'true' or 'false'.`, q.Question, q.Correct, q.User)
}
