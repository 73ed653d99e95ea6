package riddle

import (
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts easy, medium or hard in any case; empty means medium.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case "", DifficultyMedium:
		return DifficultyMedium, true
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}

// Riddle is immutable once generated.
type Riddle struct {
	ID         string     `json:"id"`
	Question   string     `json:"question"`
	Answer     string     `json:"-"`
	Hint       string     `json:"hint"`
	Hints      []string   `json:"hints"`
	Difficulty Difficulty `json:"difficulty"`
}

// Parse extracts the Riddle:, Answer:, Hint: and Hints: lines from a model
// reply. Missing labels leave their field empty. The ID is not set.
func Parse(text string, d Difficulty) Riddle {
	r := Riddle{Difficulty: d, Hints: []string{}}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "Riddle:"):
			r.Question = strings.TrimSpace(strings.TrimPrefix(line, "Riddle:"))
		case strings.HasPrefix(line, "Answer:"):
			r.Answer = strings.TrimSpace(strings.TrimPrefix(line, "Answer:"))
		case strings.HasPrefix(line, "Hint:"):
			r.Hint = strings.TrimSpace(strings.TrimPrefix(line, "Hint:"))
		case strings.HasPrefix(line, "Hints:"):
			r.Hints = splitHints(strings.TrimPrefix(line, "Hints:"))
		}
	}
	return r
}

func splitHints(s string) []string {
	out := []string{}
	for _, h := range strings.Split(s, "|") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
