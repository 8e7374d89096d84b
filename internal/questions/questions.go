// Package questions produces the question list for a new interview session.
package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// DefaultCount is the number of questions in a session.
const DefaultCount = 5

const promptFile = "interview.json"

// Generator creates interview questions for a role.
type Generator interface {
	Generate(ctx context.Context, role, jobDescription string, count int) ([]types.Question, error)
}

// TemplateGenerator fills the embedded role templates. When more questions
// are requested than templates exist the templates repeat in order.
type TemplateGenerator struct {
	templates []string
}

// NewTemplateGenerator loads the embedded templates.
func NewTemplateGenerator() (*TemplateGenerator, error) {
	templates, err := prompts.Numbered(promptFile, "question")
	if err != nil {
		return nil, fmt.Errorf("failed to load question templates: %w", err)
	}
	return &TemplateGenerator{templates: templates}, nil
}

func (g *TemplateGenerator) Generate(_ context.Context, role, _ string, count int) ([]types.Question, error) {
	if count <= 0 {
		count = DefaultCount
	}
	role = strings.TrimSpace(role)

	out := make([]types.Question, count)
	for i := range out {
		tmpl := g.templates[i%len(g.templates)]
		out[i] = types.Question{Text: prompts.Format(tmpl, map[string]string{"Role": role})}
	}
	return out, nil
}
