package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ashureev/tutor-labs/internal/domain"
)

type fakeRepo struct {
	pingErr error
	records []*domain.AssessmentRecord
	listErr error
}

func (f *fakeRepo) RecordAssessment(context.Context, *domain.AssessmentRecord) error { return nil }

func (f *fakeRepo) RecentAssessments(context.Context, int) ([]*domain.AssessmentRecord, error) {
	return f.records, f.listErr
}

func (f *fakeRepo) Ping(context.Context) error { return f.pingErr }
func (f *fakeRepo) Close() error               { return nil }

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestRoot(t *testing.T) {
	h := NewHandler(&fakeRepo{})
	w := httptest.NewRecorder()

	h.Root(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["message"] == "" {
		t.Error("Expected a welcome message")
	}
}

func TestHealth_Healthy(t *testing.T) {
	h := NewHandler(&fakeRepo{})
	w := httptest.NewRecorder()

	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %v", got["status"])
	}
}

func TestHealth_DegradedWhenDatabaseDown(t *testing.T) {
	h := NewHandler(&fakeRepo{pingErr: errors.New("db down")})
	w := httptest.NewRecorder()

	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["status"] != "degraded" {
		t.Errorf("Expected status degraded, got %v", got["status"])
	}
}

func TestRecentAssessments(t *testing.T) {
	h := NewHandler(&fakeRepo{records: []*domain.AssessmentRecord{
		{
			ID:            "rec-1",
			Subject:       "python",
			QuestionCount: 5,
			Source:        domain.SourceTemplate,
			CreatedAt:     time.Unix(1700000000, 0),
		},
	}})
	w := httptest.NewRecorder()

	h.RecentAssessments(w, httptest.NewRequest(http.MethodGet, "/api/assessments", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got struct {
		Assessments []struct {
			ID            string `json:"id"`
			Subject       string `json:"subject"`
			QuestionCount int    `json:"question_count"`
			Source        string `json:"source"`
		} `json:"assessments"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(got.Assessments) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(got.Assessments))
	}
	if got.Assessments[0].Subject != "python" || got.Assessments[0].Source != "template" {
		t.Errorf("Unexpected record: %+v", got.Assessments[0])
	}
}

func TestRecentAssessments_Error(t *testing.T) {
	h := NewHandler(&fakeRepo{listErr: errors.New("query failed")})
	w := httptest.NewRecorder()

	h.RecentAssessments(w, httptest.NewRequest(http.MethodGet, "/api/assessments", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}
