// Package assess resolves a learning request into a set of assessment
// questions, composing a model-backed generator with a deterministic
// template fallback.
package assess

import "context"

// QuestionGenerator produces subject-specific assessment questions.
type QuestionGenerator interface {
	// Generate returns questions for the given subject. Implementations may
	// block on external I/O. Errors propagate unchanged to the caller, which
	// decides recovery.
	Generate(ctx context.Context, subject string) ([]string, error)
}
