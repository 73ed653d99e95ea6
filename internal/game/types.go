package game

import (
	"sync"
	"time"

	"github.com/kiliankoe/riddlebot/internal/riddle"
)

// AchievementScore is the score at which the one-time achievement fires.
const AchievementScore = 100

// Session is one caller's score and in-progress riddles. All fields are
// guarded by mu; use the methods.
type Session struct {
	ID        string
	CreatedAt time.Time

	score            int
	answered         map[string]struct{}
	startTime        map[string]time.Time
	currentRiddles   map[string]*riddle.Riddle
	achievementShown bool
	lastSeen         time.Time

	mu sync.Mutex
}

// Attempt is the result of one check-answer call.
type Attempt struct {
	Correct         bool
	Answer          string
	Score           int
	TimeTaken       time.Duration
	PointsEarned    int
	ShowAchievement bool
}
