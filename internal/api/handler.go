// Package api exposes the riddle service over HTTP.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/riddlebot/internal/game"
	"github.com/kiliankoe/riddlebot/internal/riddle"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	svc *game.Service
}

func NewHandler(svc *game.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the riddle routes, including the legacy underscore paths.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/health", h.health)
	r.GET("/riddle", h.getRiddle)
	r.GET("/get_riddle", h.getRiddle)
	r.POST("/check-answer", h.checkAnswer)
	r.POST("/check_answer", h.checkAnswer)
}

type RiddleResponse struct {
	ID         string            `json:"id"`
	Question   string            `json:"question"`
	Hint       string            `json:"hint"`
	Hints      []string          `json:"hints"`
	Difficulty riddle.Difficulty `json:"difficulty"`
}

func NewRiddleResponse(r *riddle.Riddle) RiddleResponse {
	hints := r.Hints
	if hints == nil {
		hints = []string{}
	}
	return RiddleResponse{ID: r.ID, Question: r.Question, Hint: r.Hint, Hints: hints, Difficulty: r.Difficulty}
}

// RiddleID accepts a JSON string or number so older clients that kept
// numeric ids keep working.
type RiddleID string

func (id *RiddleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RiddleID(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = RiddleID(n.String())
	return nil
}

// maxHintCount bounds client-reported hints; any count past a handful already
// pins the award at its floor.
const maxHintCount = 1 << 20

var errBadHintCount = errors.New("hints_used must be a number")

// HintCount accepts a JSON number, a numeric string or null. Fractions round
// to the nearest hint and the count is clamped to [0, maxHintCount].
type HintCount int

func (h *HintCount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*h = 0
		return nil
	}
	raw := b
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errBadHintCount
		}
		raw = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(f) {
		return errBadHintCount
	}
	*h = HintCount(math.Min(math.Max(math.Round(f), 0), maxHintCount))
	return nil
}

type CheckRequest struct {
	ID        RiddleID  `json:"id"`
	Answer    string    `json:"answer"`
	SessionID string    `json:"session_id"`
	HintsUsed HintCount `json:"hints_used"`
}

type CheckResponse struct {
	Correct         bool    `json:"correct"`
	Answer          *string `json:"answer"`
	Score           int     `json:"score"`
	TimeTaken       float64 `json:"time_taken"`
	PointsEarned    int     `json:"points_earned"`
	ShowAchievement bool    `json:"show_achievement"`
}

func NewCheckResponse(a game.Attempt) CheckResponse {
	resp := CheckResponse{
		Correct:         a.Correct,
		Score:           a.Score,
		TimeTaken:       math.Round(a.TimeTaken.Seconds()*10) / 10,
		PointsEarned:    a.PointsEarned,
		ShowAchievement: a.ShowAchievement,
	}
	if !a.Correct {
		ans := a.Answer
		resp.Answer = &ans
	}
	return resp
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC(), "sessions": h.svc.Sessions.Len()})
}

func (h *Handler) getRiddle(c *gin.Context) {
	r, err := h.svc.NewRiddle(c.Request.Context(), c.Query("session_id"), c.Query("difficulty"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRiddleResponse(r))
}

func (h *Handler) checkAnswer(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": BindMessage(err)})
		return
	}
	att, err := h.svc.CheckAnswer(c.Request.Context(), game.CheckRequest{
		SessionID: req.SessionID,
		RiddleID:  string(req.ID),
		Answer:    req.Answer,
		HintsUsed: int(req.HintsUsed),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCheckResponse(att))
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrSessionNotFound), errors.Is(err, game.ErrRiddleNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// BindMessage names what was wrong with a request body.
func BindMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "No data provided"
	case errors.Is(err, errBadHintCount):
		return "hints_used must be a number"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return "Invalid value for " + typeErr.Field
	default:
		return "Invalid JSON body"
	}
}

// Message is the client-facing text for a service error. Provider and
// internal details stay in the logs.
func Message(err error) string {
	switch {
	case errors.Is(err, game.ErrMissingFields):
		return "Missing required fields"
	case errors.Is(err, game.ErrUnknownDifficulty):
		return "Invalid difficulty"
	case errors.Is(err, game.ErrInvalidRequest):
		return "Invalid request"
	case errors.Is(err, game.ErrGeneration):
		return "Failed to generate riddle"
	case errors.Is(err, game.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, game.ErrRiddleNotFound):
		return "Riddle not found"
	default:
		return "internal error"
	}
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError && !errors.Is(err, game.ErrGeneration) {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": Message(err)})
}
