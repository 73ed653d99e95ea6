package answer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Source names the stage that produced a Decision.
type Source string

const (
	SourceExact     Source = "exact"
	SourceAlias     Source = "alias"
	SourceSubstring Source = "substring"
	SourceAI        Source = "ai"
	// SourceRejected covers a heuristic miss with no usable AI verdict.
	SourceRejected Source = "rejected"
)

type Decision struct {
	Correct bool
	Source  Source
	Verdict Verdict
}

// AIVerifier is the fallback consulted when the heuristic misses.
type AIVerifier interface {
	Verify(ctx context.Context, q Query) (Verdict, error)
}

type Checker struct {
	matcher  *Matcher
	verifier AIVerifier
}

// NewChecker returns a Checker. verifier may be nil, in which case heuristic
// misses are final.
func NewChecker(m *Matcher, verifier AIVerifier) *Checker {
	if m == nil {
		m = defaultMatcher
	}
	return &Checker{matcher: m, verifier: verifier}
}

// Check never fails: verifier errors are logged and resolved by FailClosed.
func (c *Checker) Check(ctx context.Context, q Query) Decision {
	switch c.matcher.Match(q.Correct, q.User, q.Question) {
	case MatchExact:
		return Decision{Correct: true, Source: SourceExact}
	case MatchAlias:
		return Decision{Correct: true, Source: SourceAlias}
	case MatchSubstring:
		return Decision{Correct: true, Source: SourceSubstring}
	}

	if c.verifier == nil {
		return Decision{Source: SourceRejected}
	}
	verdict, err := c.verifier.Verify(ctx, q)
	if err != nil {
		log.Warn().Err(err).Msg("answer verification unavailable, rejecting")
	}
	if verdict == VerdictUnknown {
		return Decision{Source: SourceRejected, Verdict: verdict}
	}
	return Decision{Correct: FailClosed(verdict), Source: SourceAI, Verdict: verdict}
}
