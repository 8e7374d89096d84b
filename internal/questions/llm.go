package questions

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// LLMGenerator asks a model for tailored questions. Any failure, or a short
// answer, is covered by the fallback generator so a session always starts
// with exactly count questions.
type LLMGenerator struct {
	client   llm.Client
	fallback Generator
}

// NewLLMGenerator creates a generator backed by client.
func NewLLMGenerator(client llm.Client, fallback Generator) *LLMGenerator {
	return &LLMGenerator{client: client, fallback: fallback}
}

type generatedQuestions struct {
	Questions []string `json:"questions"`
}

func (g *LLMGenerator) Generate(ctx context.Context, role, jobDescription string, count int) ([]types.Question, error) {
	if count <= 0 {
		count = DefaultCount
	}

	texts, err := g.ask(ctx, role, jobDescription, count)
	if err != nil {
		log.Printf("[questions] model generation failed, using templates: %v", err)
		return g.fallback.Generate(ctx, role, jobDescription, count)
	}
	if len(texts) >= count {
		return toQuestions(texts[:count]), nil
	}

	filler, err := g.fallback.Generate(ctx, role, jobDescription, count)
	if err != nil {
		return nil, err
	}
	out := toQuestions(texts)
	return append(out, filler[len(out):]...), nil
}

func (g *LLMGenerator) ask(ctx context.Context, role, jobDescription string, count int) ([]string, error) {
	tmpl, err := prompts.Get(promptFile, "generate-questions")
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(tmpl, map[string]string{
		"Role":           strings.TrimSpace(role),
		"JobDescription": jobDescription,
		"Count":          strconv.Itoa(count),
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, err
	}
	parsed, err := llm.DecodeJSON[generatedQuestions](raw)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(parsed.Questions))
	for _, q := range parsed.Questions {
		if q = strings.TrimSpace(q); q != "" {
			texts = append(texts, q)
		}
	}
	return texts, nil
}

func toQuestions(texts []string) []types.Question {
	out := make([]types.Question, len(texts))
	for i, text := range texts {
		out[i] = types.Question{Text: text}
	}
	return out
}
