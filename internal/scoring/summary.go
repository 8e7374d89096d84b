package scoring

import (
	"fmt"

	"github.com/jonathan/interview-coach/internal/types"
)

// strongScore is the threshold at which a dimension is described favorably.
const strongScore = 80

func tier(score int, strong, weak string) string {
	if score >= strongScore {
		return strong
	}
	return weak
}

// BuildSummary renders the natural-language summary for a feedback record.
// Output depends only on the feedback values.
func BuildSummary(fb types.Feedback) string {
	return fmt.Sprintf(
		"Overall, your interview performance was %s. You demonstrated %s confidence and %s communication. Your use of industry keywords was %s.",
		tier(fb.OverallScore, "excellent", "good"),
		tier(fb.Confidence, "high", "moderate"),
		tier(fb.Clarity, "clear", "somewhat clear"),
		tier(fb.KeywordUsage, "excellent", "adequate"),
	)
}
