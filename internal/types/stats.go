package types

// PlatformStats is an operator-facing snapshot of activity across all users.
type PlatformStats struct {
	Users             int           `json:"users"`
	Sessions          int           `json:"sessions"`
	CompletedSessions int           `json:"completed_sessions"`
	Resumes           int           `json:"resumes"`
	AverageScore      float64       `json:"average_score"`
	UsersByLevel      map[Level]int `json:"users_by_level"`
	TopRoles          []RoleCount   `json:"top_roles"`
}

// RoleCount is the number of interviews recorded for one normalized role.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}
