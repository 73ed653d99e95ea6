package game

import (
	"math"
	"time"
)

const (
	basePoints       = 5
	maxTimeBonus     = 10
	hintPenaltyEach  = 2
	wrongAnswerDelta = -5
)

// Points returns the award for a first correct answer. Speed earns up to ten
// bonus points, each hint costs two, and the award is at least one point.
func Points(elapsed time.Duration, hintsUsed int) int {
	secs := math.Min(math.Max(elapsed.Seconds(), 0), maxTimeBonus)
	timeBonus := maxTimeBonus - secs
	penalty := float64(max(hintsUsed, 0)) * hintPenaltyEach
	award := math.Round(basePoints + timeBonus - penalty)
	if award < 1 {
		return 1
	}
	return int(award)
}

// applyAttempt mutates the session for one checked answer. Callers hold s.mu.
func (s *Session) applyAttempt(riddleID string, correct bool, hintsUsed int, now time.Time) Attempt {
	var elapsed time.Duration
	if start, ok := s.startTime[riddleID]; ok {
		elapsed = now.Sub(start)
		delete(s.startTime, riddleID)
	}

	points := 0
	switch {
	case correct:
		if _, done := s.answered[riddleID]; !done {
			s.answered[riddleID] = struct{}{}
			points = Points(elapsed, hintsUsed)
			s.score = addScore(s.score, points)
		}
	default:
		points = wrongAnswerDelta
		s.score = max(0, addScore(s.score, points))
	}

	show := correct && s.score >= AchievementScore && !s.achievementShown
	if show {
		s.achievementShown = true
	}
	s.lastSeen = now

	return Attempt{
		Correct:         correct,
		Score:           s.score,
		TimeTaken:       elapsed,
		PointsEarned:    points,
		ShowAchievement: show,
	}
}

// addScore saturates at math.MaxInt instead of wrapping.
func addScore(score, delta int) int {
	if delta > 0 && score > math.MaxInt-delta {
		return math.MaxInt
	}
	return score + delta
}
