package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kiliankoe/riddlebot/internal/ai"
	"github.com/kiliankoe/riddlebot/internal/answer"
	"github.com/kiliankoe/riddlebot/internal/api"
	"github.com/kiliankoe/riddlebot/internal/config"
	"github.com/kiliankoe/riddlebot/internal/game"
	"github.com/kiliankoe/riddlebot/internal/riddle"
	"github.com/kiliankoe/riddlebot/internal/ws"
	staticserver "github.com/kiliankoe/riddlebot/static"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev" // Set at build time via -ldflags

var rootCmd = &cobra.Command{
	Use:   "riddlebot",
	Short: "Riddle Bot - AI-generated riddles with scoring",
	Long: `Riddle Bot serves AI-generated riddles over HTTP and Socket.IO and keeps
per-session scores in memory.

Environment Variables:
  PORT                    Port to listen on (default: 8080)
  AI_PROVIDER             openrouter, openai, ollama, anthropic or gemini (default: openrouter)
  AI_MODEL                Model for generation and verification
  OPENROUTER_API_KEY      OpenRouter API key
  OPENAI_API_KEY          OpenAI API key
  OPENAI_BASE_URL         Custom OpenAI-compatible base URL (optional)
  ANTHROPIC_API_KEY       Anthropic API key
  GEMINI_API_KEY          Gemini API key
  OLLAMA_HOST             Ollama host URL (default: http://localhost:11434)
  VERIFY_TIMEOUT          Bound on AI answer verification (default: 3s)
  GENERATE_TIMEOUT        Bound on riddle generation (default: 20s)
  SESSION_TTL             Idle time before a session is evicted (default: 2h)
  EXPORT_ENABLED          Append every attempt to EXPORT_FILE (default: false)
  EXPORT_FILE             Attempt log path (default: ./riddle-results.txt)
  LOG_LEVEL               zerolog level (default: info)

A .env file in the working directory is loaded if present.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		return serve(cmd.Context(), port)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Riddle Bot %s\n", version)
	},
}

func init() {
	rootCmd.Flags().String("port", "", "Port to listen on (overrides PORT env var)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context, portFlag string) error {
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := config.FromEnv()
	if portFlag != "" {
		cfg.Port = portFlag
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("provider", cfg.Provider).Msg("failed to initialize AI provider")
		return err
	}
	provider = ai.WithLogging(provider)

	store := game.NewSessionStore(cfg.SessionTTL)
	go store.Janitor(ctx, cfg.SessionSweepInterval)

	checker := answer.NewChecker(
		answer.NewMatcher(answer.DefaultAliases),
		answer.NewVerifier(provider, cfg.Model, cfg.VerifyTimeout),
	)
	var opts []game.Option
	if cfg.ExportEnabled {
		opts = append(opts, game.WithExport(cfg.ExportFile))
	}
	svc := game.NewService(store, riddle.NewGenerator(provider, cfg.Model, cfg.GenerateTimeout), checker, opts...)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestLogger())

	api.NewHandler(svc).Register(r)
	io := ws.New(svc).Mount(r)
	defer io.Close()

	// Serve the embedded landing page for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("provider", provider.Name()).Str("model", cfg.Model).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
