package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kiliankoe/riddlebot/internal/answer"
	"github.com/kiliankoe/riddlebot/internal/riddle"
)

// ExportRecord is one line of the attempt export.
type ExportRecord struct {
	At        time.Time
	SessionID string
	Riddle    *riddle.Riddle
	Answer    string
	Source    answer.Source
	Attempt   Attempt
}

var exportMu sync.Mutex

// ExportAttempt appends rec to filename, writing a header if the file is new.
func ExportAttempt(filename string, rec ExportRecord) error {
	exportMu.Lock()
	defer exportMu.Unlock()

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if !fileExists {
		sb.WriteString("Riddle Bot Attempts\n")
		sb.WriteString(strings.Repeat("=", 50) + "\n")
	}

	verdict := "wrong"
	if rec.Attempt.Correct {
		verdict = "right"
	}
	sb.WriteString(fmt.Sprintf("%s session=%s riddle=%s %s (%s) points=%+d score=%d\n",
		rec.At.Format("2006-01-02 15:04:05"),
		rec.SessionID,
		rec.Riddle.ID,
		verdict,
		rec.Source,
		rec.Attempt.PointsEarned,
		rec.Attempt.Score,
	))
	sb.WriteString(fmt.Sprintf("  Q: %q\n  A: %q\n  user: %q\n", rec.Riddle.Question, rec.Riddle.Answer, rec.Answer))

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
