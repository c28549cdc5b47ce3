package assess

import (
	"context"
	"fmt"
	"strings"
)

// TemplateGenerator is the deterministic fallback question source. It is a
// pure function of the subject and never fails.
type TemplateGenerator struct{}

// NewTemplateGenerator creates a new template generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate returns three canned questions for the subject. Matching is
// case-insensitive substring and first-match-wins: python, then machine
// learning / ml, then web, then a generic set that interpolates the verbatim
// subject. Subjects matching several keywords get only the first set.
func (g *TemplateGenerator) Generate(_ context.Context, subject string) ([]string, error) {
	s := strings.ToLower(subject)
	switch {
	case strings.Contains(s, "python"):
		return []string{
			"Have you done any programming before?",
			"What is your goal with learning Python?",
			"Do you have any specific areas of interest (web development, data science, etc.)?",
		}, nil
	case strings.Contains(s, "machine learning"), strings.Contains(s, "ml"):
		return []string{
			"What is your background in AI and statistics?",
			"Have you worked with any ML frameworks before?",
			"What specific ML applications interest you?",
		}, nil
	case strings.Contains(s, "web"):
		return []string{
			"Are you more interested in frontend or backend development?",
			"Have you worked with HTML, CSS, or JavaScript before?",
			"Which web frameworks are you interested in learning?",
		}, nil
	default:
		return []string{
			fmt.Sprintf("What is your current knowledge level in %s?", subject),
			"What specific aspects of this subject interest you most?",
			"How do you plan to apply this knowledge?",
		}, nil
	}
}
