package progression

import (
	"time"

	"github.com/jonathan/interview-coach/internal/types"
)

// Badge names awarded on the account ladder.
const (
	BadgeIntermediate = "Intermediate Interviewer"
	BadgeAdvanced     = "Advanced Interviewer"
	BadgePro          = "Professional Interviewer"
)

type ladderStep struct {
	from        types.Level
	to          types.Level
	minXP       int
	badge       string
	description string
}

// ladder is evaluated in order and at most one step fires per award.
var ladder = []ladderStep{
	{types.LevelBeginner, types.LevelIntermediate, 1000, BadgeIntermediate, "Completed 10 interviews with good scores"},
	{types.LevelIntermediate, types.LevelAdvanced, 3000, BadgeAdvanced, "Mastered the interview process"},
	{types.LevelAdvanced, types.LevelPro, 10000, BadgePro, "Achieved expert status in interviewing"},
}

// AwardXP adds amount to the user's XP and applies at most one ladder
// promotion. A step fires only when the current level equals its source tier,
// so each badge is earned at most once. Returns an updated copy.
func AwardXP(user *types.User, amount int, now time.Time) *types.User {
	u := user.Clone()
	if amount > 0 {
		u.XPPoints += amount
	}
	if !u.Level.Valid() {
		u.Level = types.LevelBeginner
	}

	for _, step := range ladder {
		if u.XPPoints < step.minXP || u.Level != step.from {
			continue
		}
		u.Level = step.to
		if !u.HasBadge(step.badge) {
			u.Badges = append(u.Badges, types.Badge{
				Name:        step.badge,
				Description: step.description,
				EarnedAt:    now,
			})
		}
		break
	}

	u.UpdatedAt = now
	return u
}
