// Package api provides HTTP handlers for the tutor-labs API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/tutor-labs/internal/store"
	"github.com/go-chi/chi/v5"
)

const (
	healthCheckTimeout = 5 * time.Second
	listTimeout        = 5 * time.Second
	recentLimit        = 50
)

// Handler serves the welcome, health, and assessment-audit endpoints. None
// of these touch session state.
type Handler struct {
	repo store.Repository
}

// NewHandler creates a new Handler.
func NewHandler(repo store.Repository) *Handler {
	return &Handler{repo: repo}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Root returns the static welcome payload.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"message": "Welcome to Personal Tutor AI System"})
}

// Health returns the health status of the API and its dependencies.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := map[string]interface{}{
		"status": "healthy",
		"checks": map[string]string{"api": "ok"},
	}
	statusCode := http.StatusOK

	if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		status["checks"].(map[string]string)["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		status["checks"].(map[string]string)["database"] = "ok"
	}

	JSON(w, statusCode, status)
}

// RecentAssessments returns the latest assessment audit records.
func (h *Handler) RecentAssessments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), listTimeout)
	defer cancel()

	records, err := h.repo.RecentAssessments(ctx, recentLimit)
	if err != nil {
		slog.Error("Failed to list assessments", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list assessments")
		return
	}

	type entry struct {
		ID            string `json:"id"`
		Subject       string `json:"subject"`
		QuestionCount int    `json:"question_count"`
		Source        string `json:"source"`
		CreatedAt     int64  `json:"created_at"`
	}
	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, entry{
			ID:            rec.ID,
			Subject:       rec.Subject,
			QuestionCount: rec.QuestionCount,
			Source:        string(rec.Source),
			CreatedAt:     rec.CreatedAt.Unix(),
		})
	}

	JSON(w, http.StatusOK, map[string]interface{}{"assessments": entries})
}

// RegisterRoutes registers the collaborator HTTP surface.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/api/assessments", h.RecentAssessments)
}
