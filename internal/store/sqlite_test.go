package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashureev/tutor-labs/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return repo
}

func TestSQLiteStore_Ping(t *testing.T) {
	repo := newTestStore(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSQLiteStore_RecordAndList(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	older := &domain.AssessmentRecord{
		ID:            "rec-old",
		Subject:       "python",
		QuestionCount: 5,
		Source:        domain.SourceTemplate,
		CreatedAt:     now.Add(-time.Minute),
	}
	newer := &domain.AssessmentRecord{
		ID:            "rec-new",
		Subject:       "web development",
		QuestionCount: 6,
		Source:        domain.SourceModel,
		CreatedAt:     now,
	}

	if err := repo.RecordAssessment(ctx, older); err != nil {
		t.Fatalf("RecordAssessment failed: %v", err)
	}
	if err := repo.RecordAssessment(ctx, newer); err != nil {
		t.Fatalf("RecordAssessment failed: %v", err)
	}

	records, err := repo.RecentAssessments(ctx, 10)
	if err != nil {
		t.Fatalf("RecentAssessments failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ID != "rec-new" {
		t.Errorf("Expected newest record first, got %q", records[0].ID)
	}
	if records[0].Subject != "web development" || records[0].Source != domain.SourceModel {
		t.Errorf("Unexpected record contents: %+v", records[0])
	}
	if !records[0].CreatedAt.Equal(now) {
		t.Errorf("Expected created_at %v, got %v", now, records[0].CreatedAt)
	}
}

func TestSQLiteStore_ListLimit(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := &domain.AssessmentRecord{
			ID:            "rec-" + string(rune('a'+i)),
			Subject:       "history",
			QuestionCount: 5,
			Source:        domain.SourceTemplate,
			CreatedAt:     time.Now(),
		}
		if err := repo.RecordAssessment(ctx, rec); err != nil {
			t.Fatalf("RecordAssessment failed: %v", err)
		}
	}

	records, err := repo.RecentAssessments(ctx, 2)
	if err != nil {
		t.Fatalf("RecentAssessments failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected limit of 2 records, got %d", len(records))
	}
}
