package types

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// RoleCounts maps a normalized role key to the number of completed interviews.
// Lookups of missing keys yield zero.
type RoleCounts map[string]int

// Get returns the count for key, or zero.
func (rc RoleCounts) Get(key string) int {
	return rc[key]
}

// Increment adds one to the count for key and returns the new value.
// It panics on a nil map, so callers hold a value built with make or a literal.
func (rc RoleCounts) Increment(key string) int {
	rc[key]++
	return rc[key]
}

// Total returns the sum of all counts.
func (rc RoleCounts) Total() int {
	total := 0
	for _, n := range rc {
		total += n
	}
	return total
}

// PerformanceMetrics is the per-user score history and skill tier.
type PerformanceMetrics struct {
	UserID           uuid.UUID   `json:"user_id"`
	Timestamps       []time.Time `json:"timestamps"`
	Scores           []int       `json:"scores"`
	AverageScore     int         `json:"average_score"`
	ProgressLevel    Level       `json:"progress_level"`
	InterviewsByRole RoleCounts  `json:"interviews_by_role"`
	ImprovementRate  float64     `json:"improvement_rate"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// NewPerformanceMetrics returns the empty record created at registration.
func NewPerformanceMetrics(userID uuid.UUID, now time.Time) *PerformanceMetrics {
	return &PerformanceMetrics{
		UserID:           userID,
		Timestamps:       []time.Time{},
		Scores:           []int{},
		ProgressLevel:    LevelBeginner,
		InterviewsByRole: RoleCounts{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// InterviewCount is the number of completed interviews in the history.
func (m *PerformanceMetrics) InterviewCount() int {
	return len(m.Scores)
}

// Clone returns a deep copy.
func (m *PerformanceMetrics) Clone() *PerformanceMetrics {
	if m == nil {
		return nil
	}
	c := *m
	c.Timestamps = slices.Clone(m.Timestamps)
	c.Scores = slices.Clone(m.Scores)
	c.InterviewsByRole = maps.Clone(m.InterviewsByRole)
	if c.Timestamps == nil {
		c.Timestamps = []time.Time{}
	}
	if c.Scores == nil {
		c.Scores = []int{}
	}
	if c.InterviewsByRole == nil {
		c.InterviewsByRole = RoleCounts{}
	}
	return &c
}
