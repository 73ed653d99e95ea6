package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kiliankoe/riddlebot/internal/riddle"
	"github.com/rs/zerolog/log"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRiddleNotFound  = errors.New("riddle not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrGeneration      = errors.New("failed to generate riddle")

	ErrMissingFields     = fmt.Errorf("%w: missing required fields", ErrInvalidRequest)
	ErrUnknownDifficulty = fmt.Errorf("%w: unknown difficulty", ErrInvalidRequest)
)

const DefaultSessionTTL = 2 * time.Hour

// SessionStore holds every live session in memory. Sessions idle for longer
// than the TTL are dropped by Sweep.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{sessions: make(map[string]*Session), ttl: ttl, now: time.Now}
}

// GetOrCreate returns the session for id, creating it on first use.
func (st *SessionStore) GetOrCreate(id string) *Session {
	st.mu.RLock()
	s := st.sessions[id]
	st.mu.RUnlock()
	if s != nil {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s = st.sessions[id]; s != nil {
		return s
	}
	now := st.now()
	s = &Session{
		ID:             id,
		CreatedAt:      now.UTC(),
		answered:       make(map[string]struct{}),
		startTime:      make(map[string]time.Time),
		currentRiddles: make(map[string]*riddle.Riddle),
		lastSeen:       now,
	}
	st.sessions[id] = s
	log.Info().Str("session", id).Msg("session created")
	return s
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s := st.sessions[id]
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions whose last activity is older than the TTL and
// returns how many were removed.
func (st *SessionStore) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.LastSeen()) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Janitor sweeps on every tick until ctx is done.
func (st *SessionStore) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(st.now()); n > 0 {
				log.Info().Int("evicted", n).Int("remaining", st.Len()).Msg("sessions evicted")
			}
		}
	}
}

// Issue records r as an active riddle and starts its clock.
func (s *Session) Issue(r *riddle.Riddle, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentRiddles[r.ID] = r
	s.startTime[r.ID] = now
	s.lastSeen = now
}

func (s *Session) Riddle(id string) (*riddle.Riddle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.currentRiddles[id]
	if r == nil {
		return nil, ErrRiddleNotFound
	}
	return r, nil
}

// Record applies a checked answer to the session's score.
func (s *Session) Record(riddleID string, correct bool, hintsUsed int, now time.Time) Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyAttempt(riddleID, correct, hintsUsed, now)
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *Session) Answered(riddleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.answered[riddleID]
	return ok
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
