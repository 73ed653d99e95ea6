package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kiliankoe/riddlebot/internal/answer"
	"github.com/kiliankoe/riddlebot/internal/riddle"
	"github.com/rs/zerolog/log"
)

const DefaultSessionID = "default"

type RiddleSource interface {
	Generate(ctx context.Context, d riddle.Difficulty) (*riddle.Riddle, error)
}

type AnswerChecker interface {
	Check(ctx context.Context, q answer.Query) answer.Decision
}

type CheckRequest struct {
	SessionID string
	RiddleID  string
	Answer    string
	HintsUsed int
}

// Service issues riddles into sessions and scores answers against them.
type Service struct {
	Sessions *SessionStore

	source     RiddleSource
	checker    AnswerChecker
	now        func() time.Time
	exportFile string
}

type Option func(*Service)

// WithExport appends every checked attempt to filename.
func WithExport(filename string) Option {
	return func(s *Service) { s.exportFile = filename }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store *SessionStore, source RiddleSource, checker AnswerChecker, opts ...Option) *Service {
	s := &Service{Sessions: store, source: source, checker: checker, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewRiddle generates a riddle at the given difficulty and issues it into
// the session, creating the session if needed.
func (svc *Service) NewRiddle(ctx context.Context, sessionID, difficulty string) (*riddle.Riddle, error) {
	d, ok := riddle.ParseDifficulty(difficulty)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDifficulty, difficulty)
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	sess := svc.Sessions.GetOrCreate(sessionID)

	r, err := svc.source.Generate(ctx, d)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Str("difficulty", string(d)).Msg("riddle generation failed")
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	sess.Issue(r, svc.now())
	log.Info().Str("session", sessionID).Str("riddle", r.ID).Str("difficulty", string(d)).Msg("riddle issued")
	return r, nil
}

// CheckAnswer decides correctness and updates the session score. The AI
// fallback runs without holding the session lock.
func (svc *Service) CheckAnswer(ctx context.Context, req CheckRequest) (Attempt, error) {
	req.Answer = strings.TrimSpace(req.Answer)
	if req.RiddleID == "" || req.Answer == "" {
		return Attempt{}, ErrMissingFields
	}
	if req.SessionID == "" {
		req.SessionID = DefaultSessionID
	}
	sess, err := svc.Sessions.Get(req.SessionID)
	if err != nil {
		return Attempt{}, err
	}
	r, err := sess.Riddle(req.RiddleID)
	if err != nil {
		return Attempt{}, err
	}

	d := svc.checker.Check(ctx, answer.Query{Question: r.Question, Correct: r.Answer, User: req.Answer})
	att := sess.Record(r.ID, d.Correct, max(req.HintsUsed, 0), svc.now())
	if !att.Correct {
		att.Answer = r.Answer
	}

	log.Info().
		Str("session", req.SessionID).
		Str("riddle", r.ID).
		Bool("correct", att.Correct).
		Str("source", string(d.Source)).
		Int("points", att.PointsEarned).
		Int("score", att.Score).
		Msg("answer checked")

	if svc.exportFile != "" {
		rec := ExportRecord{
			At:        svc.now(),
			SessionID: req.SessionID,
			Riddle:    r,
			Answer:    req.Answer,
			Source:    d.Source,
			Attempt:   att,
		}
		if err := ExportAttempt(svc.exportFile, rec); err != nil {
			log.Error().Err(err).Str("file", svc.exportFile).Msg("failed to export attempt")
		}
	}
	return att, nil
}
