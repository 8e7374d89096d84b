// Package types provides the domain types shared by the interview coach services.
package types

import (
	"encoding/json"
	"fmt"
)

// Level is a tier on either leveling axis: the account (XP) ladder or the
// metrics (score history) ladder. Both share the same vocabulary.
type Level string

// Level values, in ascending rank.
const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelPro          Level = "Pro"
)

var levelRanks = map[Level]int{
	LevelBeginner:     0,
	LevelIntermediate: 1,
	LevelAdvanced:     2,
	LevelPro:          3,
}

// ParseLevel converts a stored string into a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if _, ok := levelRanks[l]; !ok {
		return "", fmt.Errorf("unknown level: %q", s)
	}
	return l, nil
}

// Rank returns the ordinal of the level. Unknown values rank below Beginner.
func (l Level) Rank() int {
	if r, ok := levelRanks[l]; ok {
		return r
	}
	return -1
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	_, ok := levelRanks[l]
	return ok
}

// AtLeast reports whether l ranks at or above other.
func (l Level) AtLeast(other Level) bool {
	return l.Rank() >= other.Rank()
}

// MaxLevel returns the higher ranked of a and b.
func MaxLevel(a, b Level) Level {
	if !a.AtLeast(b) {
		return b
	}
	return a
}

// UnmarshalJSON rejects levels outside the known set.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
