// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/tutor-labs/internal/domain"
)

// Repository defines the interface for persisting assessment audit records.
type Repository interface {
	// RecordAssessment appends one audit row for a delivered assessment.
	RecordAssessment(ctx context.Context, rec *domain.AssessmentRecord) error

	// RecentAssessments returns up to limit records, newest first.
	RecentAssessments(ctx context.Context, limit int) ([]*domain.AssessmentRecord, error)

	// Ping verifies database connectivity and returns an error if the
	// database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
