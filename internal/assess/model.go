package assess

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
)

const systemPrompt = `You are an expert tutor who helps assess students' learning needs.
When generating assessment questions:
1. Make them specific to the subject
2. Progress from basic to more specific topics
3. Focus on understanding background and goals
4. Each question should be clear and end with a question mark
5. Do not include numbering or bullet points
6. Return exactly 4-5 questions`

// enumerationPrefix covers the numbering and bullet markers models emit
// despite the prompt instructions.
const enumerationPrefix = "0123456789.-* "

const defaultModelTimeout = 30 * time.Second

// ModelGenerator asks a chat-completion model for assessment questions and
// parses its free-form reply. Provider and transport errors propagate
// unchanged; this generator never retries.
type ModelGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewModelGenerator creates a generator backed by the given chat-completion
// client. Each call is bounded by timeout; zero or negative selects the
// default of 30 seconds.
func NewModelGenerator(client *openai.Client, model string, timeout time.Duration) *ModelGenerator {
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &ModelGenerator{
		client:  client,
		model:   model,
		timeout: timeout,
	}
}

// Generate sends a single constrained prompt and parses the reply into a
// question list. The result may be shorter than requested; the orchestrator
// owns the minimum-count gate.
func (g *ModelGenerator) Generate(ctx context.Context, subject string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := fmt.Sprintf("A student has said: %q\n"+
		"Generate 4-5 relevant assessment questions to understand their current knowledge level, "+
		"learning goals, and specific interests in this subject.\n\n"+
		"Return only the questions, one per line.", subject)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: response contained no choices")
	}

	return ParseQuestions(resp.Choices[0].Message.Content), nil
}

// ParseQuestions extracts questions from free-form model output. It splits on
// line boundaries, strips leading numbering and bullet markers, and keeps
// only non-empty lines ending with a question mark. Model output format is
// not guaranteed, so this parser tolerates everything and drops what it
// cannot use.
func ParseQuestions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, enumerationPrefix)
		line = strings.TrimSpace(line)

		if line != "" && strings.HasSuffix(line, "?") {
			questions = append(questions, line)
		}
	}
	return questions
}
