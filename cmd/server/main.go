// Tutor Labs - AI tutoring assessment server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/tutor-labs/internal/api"
	"github.com/ashureev/tutor-labs/internal/assess"
	"github.com/ashureev/tutor-labs/internal/chat"
	"github.com/ashureev/tutor-labs/internal/config"
	"github.com/ashureev/tutor-labs/internal/middleware"
	"github.com/ashureev/tutor-labs/internal/store"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Model-backed question generation is optional; without an endpoint the
	// orchestrator serves template questions only.
	var primary assess.QuestionGenerator
	if cfg.ModelEnabled() {
		opts := []option.RequestOption{option.WithBaseURL(cfg.Model.BaseURL)}
		if cfg.Model.APIKey != "" {
			opts = append(opts, option.WithAPIKey(cfg.Model.APIKey))
		}
		client := openai.NewClient(opts...)
		primary = assess.NewModelGenerator(&client, cfg.Model.Name, cfg.Model.Timeout)
		slog.Info("Model generation enabled", "base_url", cfg.Model.BaseURL, "model", cfg.Model.Name)
	} else {
		slog.Info("Model generation disabled (MODEL_BASE_URL not set), serving template questions")
	}

	orchestrator := assess.NewOrchestrator(primary)

	// Initialize the session gateway.
	sm := chat.NewSessionManager()
	router := chat.NewRouter(orchestrator, repo)
	wsHandler := chat.NewWebSocketHandler(sm, router, cfg.FrontendURL, cfg.IsDevelopment())

	apiHandler := api.NewHandler(repo)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	apiHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Create server.
	// Note: WebSocket sessions are long-lived, so no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	sm.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
