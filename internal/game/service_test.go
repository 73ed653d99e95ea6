package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kiliankoe/riddlebot/internal/answer"
	"github.com/kiliankoe/riddlebot/internal/riddle"
)

type stubSource struct {
	next *riddle.Riddle
	err  error
}

func (s *stubSource) Generate(_ context.Context, d riddle.Difficulty) (*riddle.Riddle, error) {
	if s.err != nil {
		return nil, s.err
	}
	r := *s.next
	r.Difficulty = d
	return &r, nil
}

type countingVerifier struct {
	verdict answer.Verdict
	calls   int
}

func (v *countingVerifier) Verify(context.Context, answer.Query) (answer.Verdict, error) {
	v.calls++
	return v.verdict, nil
}

type fixture struct {
	svc      *Service
	source   *stubSource
	verifier *countingVerifier
	now      time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		source:   &stubSource{next: &riddle.Riddle{ID: "r1", Question: "What has whiskers and purrs?", Answer: "A cat"}},
		verifier: &countingVerifier{verdict: answer.VerdictIncorrect},
		now:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	checker := answer.NewChecker(answer.NewMatcher(answer.DefaultAliases), f.verifier)
	opts = append([]Option{WithClock(func() time.Time { return f.now })}, opts...)
	f.svc = NewService(NewSessionStore(time.Hour), f.source, checker, opts...)
	return f
}

func TestNewRiddleCreatesSession(t *testing.T) {
	f := newFixture(t)

	r, err := f.svc.NewRiddle(context.Background(), "alice", "hard")
	if err != nil {
		t.Fatalf("should issue riddle: %v", err)
	}
	if r.Difficulty != riddle.DifficultyHard {
		t.Fatalf("expected hard, got %s", r.Difficulty)
	}
	sess, err := f.svc.Sessions.Get("alice")
	if err != nil {
		t.Fatalf("session should exist: %v", err)
	}
	if _, err := sess.Riddle("r1"); err != nil {
		t.Fatalf("riddle should be issued into session: %v", err)
	}
}

func TestNewRiddleErrors(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.NewRiddle(context.Background(), "a", "extreme"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}

	f.source.err = errors.New("upstream down")
	if _, err := f.svc.NewRiddle(context.Background(), "a", ""); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestCheckAnswerFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.NewRiddle(ctx, "", "easy"); err != nil {
		t.Fatalf("should issue riddle: %v", err)
	}

	f.now = f.now.Add(2 * time.Second)
	att, err := f.svc.CheckAnswer(ctx, CheckRequest{RiddleID: "r1", Answer: "  the cat ", HintsUsed: 1})
	if err != nil {
		t.Fatalf("should check answer: %v", err)
	}
	if !att.Correct || att.PointsEarned != 11 || att.Score != 11 {
		t.Fatalf("unexpected attempt %+v", att)
	}
	if att.Answer != "" {
		t.Fatal("answer should not be revealed on a correct attempt")
	}
	if f.verifier.calls != 0 {
		t.Fatal("heuristic hit should not consult the verifier")
	}

	att, err = f.svc.CheckAnswer(ctx, CheckRequest{SessionID: DefaultSessionID, RiddleID: "r1", Answer: "dog"})
	if err != nil {
		t.Fatalf("should check answer: %v", err)
	}
	if att.Correct || att.PointsEarned != -5 || att.Score != 6 {
		t.Fatalf("unexpected attempt %+v", att)
	}
	if att.Answer != "A cat" {
		t.Fatalf("answer should be revealed on a wrong attempt, got %q", att.Answer)
	}
	if f.verifier.calls != 1 {
		t.Fatalf("verifier should be consulted exactly once, got %d", f.verifier.calls)
	}
}

func TestCheckAnswerAIAccepts(t *testing.T) {
	f := newFixture(t)
	f.verifier.verdict = answer.VerdictCorrect
	ctx := context.Background()
	f.svc.NewRiddle(ctx, "s", "")

	att, err := f.svc.CheckAnswer(ctx, CheckRequest{SessionID: "s", RiddleID: "r1", Answer: "feline"})
	if err != nil {
		t.Fatalf("should check answer: %v", err)
	}
	if !att.Correct || att.PointsEarned != 15 {
		t.Fatalf("AI-accepted answer should score, got %+v", att)
	}
}

func TestCheckAnswerValidationAndNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CheckAnswer(ctx, CheckRequest{RiddleID: "r1", Answer: "   "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("blank answer should be invalid, got %v", err)
	}
	if _, err := f.svc.CheckAnswer(ctx, CheckRequest{Answer: "cat"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("missing id should be invalid, got %v", err)
	}
	if _, err := f.svc.CheckAnswer(ctx, CheckRequest{SessionID: "ghost", RiddleID: "r1", Answer: "cat"}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	f.svc.NewRiddle(ctx, "s", "")
	if _, err := f.svc.CheckAnswer(ctx, CheckRequest{SessionID: "s", RiddleID: "other", Answer: "cat"}); !errors.Is(err, ErrRiddleNotFound) {
		t.Fatalf("expected ErrRiddleNotFound, got %v", err)
	}
}

func TestCheckAnswerNegativeHintsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.NewRiddle(ctx, "s", "")

	att, _ := f.svc.CheckAnswer(ctx, CheckRequest{SessionID: "s", RiddleID: "r1", Answer: "cat", HintsUsed: -3})
	if att.PointsEarned != 15 {
		t.Fatalf("negative hints should count as zero, got %d points", att.PointsEarned)
	}
}

func TestCheckAnswerHugeHintsFloorAtOnePoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.NewRiddle(ctx, "s", "")

	att, err := f.svc.CheckAnswer(ctx, CheckRequest{SessionID: "s", RiddleID: "r1", Answer: "cat", HintsUsed: 1<<62 + 1<<61})
	if err != nil {
		t.Fatalf("should check answer: %v", err)
	}
	if att.PointsEarned != 1 || att.Score != 1 {
		t.Fatalf("expected 1 point and score 1, got %d points, score %d", att.PointsEarned, att.Score)
	}
}

func TestCheckAnswerExport(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out", "attempts.txt")
	f := newFixture(t, WithExport(file))
	ctx := context.Background()
	f.svc.NewRiddle(ctx, "s", "")

	if _, err := f.svc.CheckAnswer(ctx, CheckRequest{SessionID: "s", RiddleID: "r1", Answer: "cat"}); err != nil {
		t.Fatalf("should check answer: %v", err)
	}
	if _, err := f.svc.CheckAnswer(ctx, CheckRequest{SessionID: "s", RiddleID: "r1", Answer: "dog"}); err != nil {
		t.Fatalf("should check answer: %v", err)
	}

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("export file should exist: %v", err)
	}
	out := string(b)
	if strings.Count(out, "Riddle Bot Attempts") != 1 {
		t.Fatal("header should be written once")
	}
	if !strings.Contains(out, "right (exact) points=+15 score=15") {
		t.Fatalf("missing correct attempt line:\n%s", out)
	}
	if !strings.Contains(out, "wrong (ai) points=-5 score=10") {
		t.Fatalf("missing wrong attempt line:\n%s", out)
	}
}
