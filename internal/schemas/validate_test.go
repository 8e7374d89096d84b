package schemas

import (
	"errors"
	"testing"

	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFeedback() types.Feedback {
	return types.Feedback{
		Clarity:      80,
		Confidence:   75,
		FillerWords:  3,
		Emotion:      types.EmotionConfident,
		KeywordUsage: 90,
		Suggestions:  []string{"Be specific"},
		OverallScore: 82,
	}
}

func TestValidate_Feedback(t *testing.T) {
	assert.NoError(t, Validate(Feedback, validFeedback()))
}

func TestValidate_FeedbackOutOfRange(t *testing.T) {
	fb := validFeedback()
	fb.OverallScore = 101
	fb.FillerWords = -1

	err := Validate(Feedback, fb)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, Feedback, ve.Schema)
	assert.Len(t, ve.Errors, 2)
	assert.Contains(t, err.Error(), "overall_score")
}

func TestValidate_FeedbackUnknownEmotion(t *testing.T) {
	fb := validFeedback()
	fb.Emotion = "Bored"
	assert.Error(t, Validate(Feedback, fb))
}

func TestValidate_FeedbackNilSuggestions(t *testing.T) {
	fb := validFeedback()
	fb.Suggestions = nil
	assert.Error(t, Validate(Feedback, fb))
}

func TestValidate_ResumeAnalysis(t *testing.T) {
	a := types.ResumeAnalysis{
		ATSScore:               70,
		FormattingIssues:       []string{},
		GrammarIssues:          []string{"tense"},
		ImprovementSuggestions: []string{"quantify"},
		KeywordMatch:           66,
	}
	assert.NoError(t, Validate(ResumeAnalysis, a))

	a.KeywordMatch = -5
	assert.Error(t, Validate(ResumeAnalysis, a))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing", struct{}{})
	var le *SchemaLoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "missing")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{}`)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "(root)", ve.Errors[0].Field)
}
