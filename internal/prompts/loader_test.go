package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("interview.json", "generate-questions")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Role}}")
	assert.Contains(t, prompt, "{{.Count}}")
	assert.Contains(t, prompt, "{{.JobDescription}}")
}

func TestGet_Errors(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.ErrorContains(t, err, "not embedded")

	_, err = Get("interview.json", "nonexistent-key")
	assert.ErrorContains(t, err, "not found")
}

func TestNumbered(t *testing.T) {
	questions, err := Numbered("interview.json", "question")
	require.NoError(t, err)
	require.Len(t, questions, 5)
	assert.Equal(t, "Tell me about your experience with {{.Role}}?", questions[0])
	assert.Equal(t, "Where do you see yourself in 5 years as a {{.Role}}?", questions[4])

	_, err = Numbered("interview.json", "missing")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("Hello {{.Role}}, {{.Role}} x{{.Count}}", map[string]string{
		"Role":  "Engineer",
		"Count": "3",
	})
	assert.Equal(t, "Hello Engineer, Engineer x3", out)

	assert.Equal(t, "keep {{.Other}}", Format("keep {{.Other}}", nil))
	assert.Equal(t, "keep {{.Other}}", Format("keep {{.Other}}", map[string]string{"Role": "x"}))
}
