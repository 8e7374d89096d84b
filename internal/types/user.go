package types

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Badge is a one-time award on the account ladder.
type Badge struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

// User is an account record. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	XPPoints     int         `json:"xp_points"`
	Level        Level       `json:"level"`
	Badges       []Badge     `json:"badges"`
	ResumeURL    string      `json:"resume_url,omitempty"`
	ATSScore     int         `json:"ats_score"`
	History      []uuid.UUID `json:"history"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewUser returns a fresh account at the bottom of the ladder.
func NewUser(name, email, passwordHash string, now time.Time) *User {
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Level:        LevelBeginner,
		Badges:       []Badge{},
		History:      []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasBadge reports whether a badge with the given name was already earned.
func (u *User) HasBadge(name string) bool {
	return slices.ContainsFunc(u.Badges, func(b Badge) bool { return b.Name == name })
}

// Clone returns a deep copy so callers can mutate without aliasing store state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Badges = slices.Clone(u.Badges)
	c.History = slices.Clone(u.History)
	if c.Badges == nil {
		c.Badges = []Badge{}
	}
	if c.History == nil {
		c.History = []uuid.UUID{}
	}
	return &c
}
