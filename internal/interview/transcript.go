package interview

import (
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
)

const noAnswer = "No answer provided"

// BuildTranscript renders every question with its answer as "Q: ...\nA: ..."
// blocks separated by a blank line.
func BuildTranscript(session *types.InterviewSession) string {
	blocks := make([]string, len(session.Questions))
	for i, q := range session.Questions {
		answer := noAnswer
		if i < len(session.Answers) && strings.TrimSpace(session.Answers[i].Text) != "" {
			answer = session.Answers[i].Text
		}
		blocks[i] = "Q: " + q.Text + "\nA: " + answer
	}
	return strings.Join(blocks, "\n\n")
}
