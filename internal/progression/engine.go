// Package progression implements the performance-progression and
// gamification rules: score history, rolling average, the metrics skill tier,
// per-role counters, and the account XP ladder with its badges.
//
// Two leveling axes coexist on purpose. PerformanceMetrics.ProgressLevel is a
// skill tier computed from the score history and never reaches Pro.
// User.Level is an engagement tier driven by XP and is the only path to Pro.
package progression

import (
	"math"
	"time"

	"github.com/jonathan/interview-coach/internal/types"
)

// XP awards.
const (
	InterviewXP      = 100
	ResumeAnalysisXP = 50
)

// Thresholds for the metrics skill tier.
const (
	advancedMinInterviews     = 5
	advancedMinAverage        = 80
	intermediateMinInterviews = 3
	intermediateMinAverage    = 70
)

// Apply records a completed interview. It returns updated copies of metrics
// and user; the inputs are not modified.
func Apply(metrics *types.PerformanceMetrics, user *types.User, role string, score int, now time.Time) (*types.PerformanceMetrics, *types.User) {
	m := metrics.Clone()

	m.Timestamps = append(m.Timestamps, now)
	m.Scores = append(m.Scores, score)
	m.AverageScore = RoundedMean(m.Scores)
	m.ProgressLevel = types.MaxLevel(m.ProgressLevel, TargetProgressLevel(len(m.Scores), m.AverageScore))
	m.InterviewsByRole.Increment(NormalizeRole(role))
	m.ImprovementRate = ImprovementRate(m.Scores)
	m.UpdatedAt = now

	return m, AwardXP(user, InterviewXP, now)
}

// TargetProgressLevel computes the skill tier a history qualifies for,
// independent of the tier currently held.
func TargetProgressLevel(interviews, average int) types.Level {
	switch {
	case interviews >= advancedMinInterviews && average >= advancedMinAverage:
		return types.LevelAdvanced
	case interviews >= intermediateMinInterviews && average >= intermediateMinAverage:
		return types.LevelIntermediate
	default:
		return types.LevelBeginner
	}
}

// RoundedMean returns the mean of scores rounded half up (80.5 becomes 81).
// Scores are non-negative so integer arithmetic is exact.
func RoundedMean(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	n := len(scores)
	return (2*sum + n) / (2 * n)
}

// ImprovementRate is the latest score minus the mean of all earlier scores,
// rounded to one decimal. Zero until there are two scores.
func ImprovementRate(scores []int) float64 {
	if len(scores) < 2 {
		return 0
	}
	prior := scores[:len(scores)-1]
	sum := 0
	for _, s := range prior {
		sum += s
	}
	mean := float64(sum) / float64(len(prior))
	delta := float64(scores[len(scores)-1]) - mean
	return math.Round(delta*10) / 10
}
