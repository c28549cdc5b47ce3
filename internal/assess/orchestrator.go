package assess

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ashureev/tutor-labs/internal/domain"
)

// ErrEmptySubject is returned when the learning request is empty or
// whitespace-only. It is the one failure Assess surfaces to the caller;
// everything else is swallowed by the fallback.
var ErrEmptySubject = errors.New("learning request cannot be empty")

// minSubjectQuestions is the quality gate for generator output: fewer than
// this and the whole result is discarded in favor of the template fallback.
const minSubjectQuestions = 3

// commonQuestions are appended to every assessment, after the
// subject-specific questions.
var commonQuestions = []string{
	"How much time can you dedicate to learning per week?",
	"What is your preferred learning style (hands-on, reading, video tutorials)?",
}

// Orchestrator resolves a subject into an Assessment. It tries the primary
// generator once and falls back to the deterministic template set on any
// error or under-delivery. There is no retry: a generator that already
// failed gets no second attempt within a call.
type Orchestrator struct {
	primary  QuestionGenerator
	fallback *TemplateGenerator
}

// NewOrchestrator composes the primary generator with the template fallback.
// A nil primary disables model generation and serves every assessment from
// templates.
func NewOrchestrator(primary QuestionGenerator) *Orchestrator {
	return &Orchestrator{
		primary:  primary,
		fallback: NewTemplateGenerator(),
	}
}

// Assess builds a fresh question set for the subject: at least three
// subject-specific questions followed by the two common questions. The
// returned slice is never shared or mutated across calls.
func (o *Orchestrator) Assess(ctx context.Context, subject string) (*domain.Assessment, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, ErrEmptySubject
	}

	source := domain.SourceModel
	var questions []string
	if o.primary != nil {
		generated, err := o.primary.Generate(ctx, subject)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				// The session is gone; nothing downstream will use a result.
				return nil, ctx.Err()
			}
			slog.Warn("Question generation failed, falling back to templates", "error", err)
		case len(generated) < minSubjectQuestions:
			slog.Warn("Generator returned too few questions, falling back to templates",
				"count", len(generated))
		default:
			questions = generated
		}
	}

	if questions == nil {
		// Short or failed generator output is discarded entirely, never
		// merged with the template set.
		questions, _ = o.fallback.Generate(ctx, subject)
		source = domain.SourceTemplate
	}

	set := make([]string, 0, len(questions)+len(commonQuestions))
	set = append(set, questions...)
	set = append(set, commonQuestions...)

	return &domain.Assessment{Questions: set, Source: source}, nil
}
