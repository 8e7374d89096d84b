package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"bare fence", "```\n[1, 2]\n```", `[1, 2]`},
		{"plain", `  {"key": "value"}  `, `{"key": "value"}`},
		{"inline fence", "```{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	out, err := DecodeJSON[struct {
		Questions []string `json:"questions"`
	}]("```json\n{\"questions\":[\"a\",\"b\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Questions)

	_, err = DecodeJSON[[]string]("not json")
	assert.Error(t, err)
}

func TestConfigGetModel(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "gemini-2.5-flash-lite", c.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", c.GetModel("unknown"))

	c = &Config{Models: map[ModelTier]string{TierLite: "only-lite"}}
	assert.Equal(t, "only-lite", c.GetModel(TierStandard))

	assert.Equal(t, "", (&Config{}).GetModel(TierLite))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(t.Context(), nil, "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"questions":`), genai.Text(`["a"]}`)}},
	}}}
	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"questions":["a"]}`, text)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	blocked := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}
	_, err = responseText(blocked)
	assert.ErrorIs(t, err, ErrBlocked)

	empty := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}}
	_, err = responseText(empty)
	assert.Error(t, err)
}
