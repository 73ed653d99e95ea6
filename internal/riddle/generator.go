package riddle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kiliankoe/riddlebot/internal/ai"
)

const DefaultGenerateTimeout = 20 * time.Second

// ErrIncomplete means the model reply lacked a question or an answer.
var ErrIncomplete = errors.New("incomplete riddle")

type Generator struct {
	provider ai.Provider
	model    string
	timeout  time.Duration
	newID    func() string
}

func NewGenerator(p ai.Provider, model string, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &Generator{provider: p, model: model, timeout: timeout, newID: uuid.NewString}
}

// Generate asks the model for one riddle. The returned riddle always has a
// question and an answer.
func (g *Generator) Generate(ctx context.Context, d Difficulty) (*Riddle, error) {
	ctx, cancel := context.WithTimeout(ai.WithPurpose(ctx, "generate"), g.timeout)
	defer cancel()

	text, err := g.provider.Complete(ctx, ai.Request{
		Model:  g.model,
		System: systemPrompt(d),
		Prompt: fmt.Sprintf("Create a %s riddle about technology or general knowledge.", d),
	})
	if err != nil {
		return nil, fmt.Errorf("generate riddle: %w", err)
	}
	r := Parse(text, d)
	if r.Question == "" || r.Answer == "" {
		return nil, ErrIncomplete
	}
	r.ID = g.newID()
	return &r, nil
}

func systemPrompt(d Difficulty) string {
	return fmt.Sprintf(`Generate a %s riddle with:
Riddle: [question]
Answer: [answer]
Hint: [hint]
Hints: [hint2] | [hint3] | [hint4]`, d)
}
