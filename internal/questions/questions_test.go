package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func newTemplates(t *testing.T) *TemplateGenerator {
	t.Helper()
	g, err := NewTemplateGenerator()
	require.NoError(t, err)
	return g
}

func TestTemplateGenerator(t *testing.T) {
	qs, err := newTemplates(t).Generate(context.Background(), "  Backend Engineer ", "", DefaultCount)
	require.NoError(t, err)
	require.Len(t, qs, 5)
	assert.Equal(t, "Tell me about your experience with Backend Engineer?", qs[0].Text)
	assert.Equal(t, "Where do you see yourself in 5 years as a Backend Engineer?", qs[4].Text)
	for _, q := range qs {
		assert.Empty(t, q.TTSAudioURL)
	}
}

func TestTemplateGenerator_Counts(t *testing.T) {
	g := newTemplates(t)

	qs, _ := g.Generate(context.Background(), "QA", "", 7)
	require.Len(t, qs, 7)
	assert.Equal(t, qs[0], qs[5])

	qs, _ = g.Generate(context.Background(), "QA", "", 0)
	assert.Len(t, qs, DefaultCount)
}

func TestLLMGenerator_UsesModelQuestions(t *testing.T) {
	client := &fakeClient{response: "```json\n{\"questions\":[\"A?\",\" \",\"B?\",\"C?\"]}\n```"}
	g := NewLLMGenerator(client, newTemplates(t))

	qs, err := g.Generate(context.Background(), "Designer", "Figma heavy role", 2)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "A?", qs[0].Text)
	assert.Equal(t, "B?", qs[1].Text)
	assert.Contains(t, client.prompt, "Designer")
	assert.Contains(t, client.prompt, "Figma heavy role")
	assert.Contains(t, client.prompt, "exactly 2 interview questions")
}

func TestLLMGenerator_PadsShortAnswer(t *testing.T) {
	client := &fakeClient{response: `{"questions":["Custom one?"]}`}
	g := NewLLMGenerator(client, newTemplates(t))

	qs, err := g.Generate(context.Background(), "SRE", "", 3)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, "Custom one?", qs[0].Text)
	assert.Equal(t, "What are the key skills required for a SRE position?", qs[1].Text)
}

func TestLLMGenerator_FallsBackOnError(t *testing.T) {
	for _, client := range []*fakeClient{
		{err: errors.New("quota exceeded")},
		{response: "not json"},
	} {
		g := NewLLMGenerator(client, newTemplates(t))
		qs, err := g.Generate(context.Background(), "PM", "", DefaultCount)
		require.NoError(t, err)
		require.Len(t, qs, DefaultCount)
		assert.Equal(t, "Tell me about your experience with PM?", qs[0].Text)
	}
}
