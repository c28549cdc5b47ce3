package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ashureev/tutor-labs/internal/assess"
	"github.com/ashureev/tutor-labs/internal/domain"
	"github.com/ashureev/tutor-labs/internal/store"
	"github.com/google/uuid"
)

// Inbound message types accepted from clients.
const msgTypeStartLearning = "start_learning"

// Outbound envelope types.
const (
	msgTypeAssessment = "assessment"
	msgTypeError      = "error"
)

// recordTimeout bounds the asynchronous audit write so a slow database
// cannot accumulate goroutines behind the session loop.
const recordTimeout = 5 * time.Second

type assessmentContent struct {
	Questions []string `json:"questions"`
}

type assessmentEnvelope struct {
	Type    string            `json:"type"`
	Content assessmentContent `json:"content"`
}

type errorEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Router decodes, validates, and dispatches one inbound frame at a time.
// Every protocol and validation failure becomes an outbound error envelope;
// nothing the client sends can end the session through this layer.
type Router struct {
	orchestrator *assess.Orchestrator
	repo         store.Repository
}

// NewRouter creates a router. A nil repo disables assessment audit records.
func NewRouter(orchestrator *assess.Orchestrator, repo store.Repository) *Router {
	return &Router{
		orchestrator: orchestrator,
		repo:         repo,
	}
}

// Handle processes one raw frame and returns the response frame to write
// back, or nil when no response should be written (the session context was
// cancelled while an assessment was in flight).
func (r *Router) Handle(ctx context.Context, sessionID string, frame []byte) []byte {
	var decoded any
	if err := json.Unmarshal(frame, &decoded); err != nil {
		return errorFrame("Invalid JSON format")
	}

	msg, ok := decoded.(map[string]any)
	if !ok {
		return errorFrame("Message must be a JSON object")
	}

	// A missing or non-string type field falls through to the rejection
	// branch with an empty literal.
	msgType, _ := msg["type"].(string)
	if msgType != msgTypeStartLearning {
		// Echo the offending value so the client can tell which message
		// was rejected.
		return errorFrame("Invalid message type: " + msgType)
	}

	rawContent, ok := msg["content"]
	if !ok {
		return errorFrame("Missing required field: content")
	}
	subject, ok := rawContent.(string)
	if !ok {
		return errorFrame("Field content must be a string")
	}

	assessment, err := r.orchestrator.Assess(ctx, subject)
	if err != nil {
		if errors.Is(err, assess.ErrEmptySubject) {
			return errorFrame(err.Error())
		}
		// Cancellation while generation was in flight: the transport is
		// gone and the result is discarded.
		slog.Warn("Assessment aborted", "session_id", sessionID, "error", err)
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	slog.Info("Assessment generated",
		"session_id", sessionID,
		"source", assessment.Source,
		"questions", len(assessment.Questions))
	r.record(sessionID, subject, assessment)

	out, err := json.Marshal(assessmentEnvelope{
		Type:    msgTypeAssessment,
		Content: assessmentContent{Questions: assessment.Questions},
	})
	if err != nil {
		slog.Error("Failed to encode assessment", "session_id", sessionID, "error", err)
		return errorFrame("Failed to encode response")
	}
	return out
}

// record persists an audit row off the hot path. Audit failures are logged
// and dropped; they never affect the exchange.
func (r *Router) record(sessionID, subject string, a *domain.Assessment) {
	if r.repo == nil {
		return
	}

	rec := &domain.AssessmentRecord{
		ID:            uuid.NewString(),
		Subject:       subject,
		QuestionCount: len(a.Questions),
		Source:        a.Source,
		CreatedAt:     time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := r.repo.RecordAssessment(ctx, rec); err != nil {
			slog.Warn("Failed to record assessment", "session_id", sessionID, "error", err)
		}
	}()
}

func errorFrame(message string) []byte {
	out, err := json.Marshal(errorEnvelope{Type: msgTypeError, Message: message})
	if err != nil {
		return []byte(`{"type":"error","message":"internal error"}`)
	}
	return out
}
