package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studymate-ai/backend/internal/api"
	"github.com/studymate-ai/backend/internal/grader"
	"github.com/studymate-ai/backend/internal/infrastructure/config"
	"github.com/studymate-ai/backend/internal/llm"
	"github.com/studymate-ai/backend/internal/service"
	"github.com/studymate-ai/backend/internal/store"

	_ "github.com/studymate-ai/backend/docs" // generated swagger docs
)

// @title           StudyMate API
// @version         1.0
// @description     Generate quizzes on any topic or from an indexed book, and let AI grade the answers.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	client := llm.NewOpenAIClient(cfg.LLMURL, cfg.LLMModel, cfg.LLMAPIKey, &http.Client{})
	if !client.Configured() {
		// Still serve grading of MCQs and book indexing; generation answers 503.
		logger.Warn("model provider credential missing, set LLM_API_KEY or GROQ_API_KEY")
	}

	generator := service.NewQuizGenerator(client, service.GenerationOptions{
		Temperature: cfg.GenerationTemperature,
		MaxTokens:   cfg.GenerationMaxTokens,
		Timeout:     cfg.GenerationTimeout,
		Strict:      cfg.StrictQuizValidation,
	}, logger)

	llmGrader := grader.NewLLMGrader(client, grader.Options{
		Temperature: 0,
		Timeout:     cfg.GradingTimeout,
	})
	gradingSvc := service.NewGradingService(llmGrader, service.GradingOptions{Workers: cfg.GradingWorkers}, logger)

	handler := api.NewHandler(generator, gradingSvc, db, logger)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           api.NewRouter(handler, logger, cfg.CORSOrigins),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"model", client.Model(),
		"grading_workers", cfg.GradingWorkers,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
