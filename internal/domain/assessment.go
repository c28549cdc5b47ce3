// Package domain holds the core data types shared across layers.
package domain

import "time"

// Source identifies which generator produced an assessment's subject questions.
type Source string

const (
	// SourceModel marks questions generated by the language model.
	SourceModel Source = "model"
	// SourceTemplate marks questions served from the deterministic templates.
	SourceTemplate Source = "template"
)

// Assessment is a finished question set ready to be sent to a client.
// Questions keeps insertion order: subject-specific questions first, then
// the common questions.
type Assessment struct {
	Questions []string
	Source    Source
}

// AssessmentRecord is the audit row persisted for each delivered assessment.
type AssessmentRecord struct {
	ID            string
	Subject       string
	QuestionCount int
	Source        Source
	CreatedAt     time.Time
}
