package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/riddlebot/internal/api"
	"github.com/kiliankoe/riddlebot/internal/game"
	"github.com/rs/zerolog/log"
)

// ConnCtx remembers the session a socket last played in.
type ConnCtx struct {
	SessionID string
}

type RiddleRequest struct {
	Difficulty string `json:"difficulty"`
	SessionID  string `json:"sessionId"`
}

type CheckRequest struct {
	ID        api.RiddleID  `json:"id"`
	Answer    string        `json:"answer"`
	SessionID string        `json:"sessionId"`
	HintsUsed api.HintCount `json:"hintsUsed"`
}

type Server struct {
	svc *game.Service
}

func New(svc *game.Service) *Server {
	return &Server{svc: svc}
}

// Mount attaches a Socket.IO server with the riddle events to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "riddle:get", func(s socketio.Conn, payload RiddleRequest) map[string]any {
		return srv.getRiddle(s, payload)
	})

	io.OnEvent("/", "riddle:check", func(s socketio.Conn, payload CheckRequest) map[string]any {
		return srv.checkAnswer(s, payload)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket server stopped")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// Emitter is the part of socketio.Conn the event handlers use.
type Emitter interface {
	ID() string
	Context() interface{}
	SetContext(v interface{})
	Emit(event string, v ...interface{})
}

func (srv *Server) getRiddle(s Emitter, payload RiddleRequest) map[string]any {
	sessionID := srv.sessionFor(s, payload.SessionID)
	r, err := srv.svc.NewRiddle(context.Background(), sessionID, payload.Difficulty)
	if err != nil {
		return srv.err(s, err)
	}
	s.SetContext(&ConnCtx{SessionID: sessionID})
	log.Info().Str("sid", s.ID()).Str("session", sessionID).Msg("riddle:get")
	resp := api.NewRiddleResponse(r)
	return map[string]any{
		"id":         resp.ID,
		"question":   resp.Question,
		"hint":       resp.Hint,
		"hints":      resp.Hints,
		"difficulty": resp.Difficulty,
	}
}

func (srv *Server) checkAnswer(s Emitter, payload CheckRequest) map[string]any {
	sessionID := srv.sessionFor(s, payload.SessionID)
	att, err := srv.svc.CheckAnswer(context.Background(), game.CheckRequest{
		SessionID: sessionID,
		RiddleID:  string(payload.ID),
		Answer:    payload.Answer,
		HintsUsed: int(payload.HintsUsed),
	})
	if err != nil {
		return srv.err(s, err)
	}
	resp := api.NewCheckResponse(att)
	if resp.ShowAchievement {
		s.Emit("riddle:achievement", map[string]any{"score": resp.Score})
	}
	return map[string]any{
		"correct":          resp.Correct,
		"answer":           resp.Answer,
		"score":            resp.Score,
		"time_taken":       resp.TimeTaken,
		"points_earned":    resp.PointsEarned,
		"show_achievement": resp.ShowAchievement,
	}
}

// sessionFor prefers the explicit id, then the socket's remembered session.
func (srv *Server) sessionFor(s Emitter, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if ctx, ok := s.Context().(*ConnCtx); ok && ctx.SessionID != "" {
		return ctx.SessionID
	}
	return game.DefaultSessionID
}

func (srv *Server) err(s Emitter, err error) map[string]any {
	code := "internal"
	switch {
	case errors.Is(err, game.ErrInvalidRequest):
		code = "bad_request"
	case errors.Is(err, game.ErrSessionNotFound):
		code = "session_not_found"
	case errors.Is(err, game.ErrRiddleNotFound):
		code = "riddle_not_found"
	case errors.Is(err, game.ErrGeneration):
		code = "generation_failed"
	}
	if code == "internal" {
		log.Error().Err(err).Str("sid", s.ID()).Msg("socket request failed")
	}
	msg := api.Message(err)
	s.Emit("error", map[string]any{"code": code, "message": msg, "status": api.StatusFor(err)})
	return map[string]any{"error": msg}
}
