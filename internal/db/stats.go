package db

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-coach/internal/types"
)

// Stats aggregates activity across all users. topRoles limits the role
// breakdown.
func (db *DB) Stats(ctx context.Context, topRoles int) (*types.PlatformStats, error) {
	stats := &types.PlatformStats{UsersByLevel: map[types.Level]int{}}

	err := db.pool.QueryRow(ctx,
		`SELECT
		     (SELECT COUNT(*) FROM users),
		     (SELECT COUNT(*) FROM interview_sessions),
		     (SELECT COUNT(*) FROM interview_sessions WHERE progress_recorded_at IS NOT NULL),
		     (SELECT COUNT(*) FROM resumes),
		     (SELECT COALESCE(AVG(s), 0)::float8 FROM performance_metrics, unnest(scores) AS s)`,
	).Scan(&stats.Users, &stats.Sessions, &stats.CompletedSessions, &stats.Resumes, &stats.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}

	rows, err := db.pool.Query(ctx, `SELECT level, COUNT(*) FROM users GROUP BY level`)
	if err != nil {
		return nil, fmt.Errorf("failed to count levels: %w", err)
	}
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan level count: %w", err)
		}
		stats.UsersByLevel[types.Level(level)] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count levels: %w", err)
	}

	rows, err = db.pool.Query(ctx,
		`SELECT key, SUM(value::int) AS total
		 FROM performance_metrics, jsonb_each_text(interviews_by_role)
		 GROUP BY key ORDER BY total DESC, key LIMIT $1`,
		topRoles,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count roles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rc types.RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan role count: %w", err)
		}
		stats.TopRoles = append(stats.TopRoles, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count roles: %w", err)
	}
	return stats, nil
}
