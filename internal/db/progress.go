package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

const metricsColumns = `user_id, timestamps, scores, average_score, progress_level,
	interviews_by_role, improvement_rate, created_at, updated_at`

func scanMetrics(row pgx.Row) (*types.PerformanceMetrics, error) {
	var m types.PerformanceMetrics
	var level string
	var roles []byte
	err := row.Scan(&m.UserID, &m.Timestamps, &m.Scores, &m.AverageScore, &level,
		&roles, &m.ImprovementRate, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.ProgressLevel = types.Level(level)
	m.InterviewsByRole = types.RoleCounts{}
	if err := json.Unmarshal(roles, &m.InterviewsByRole); err != nil {
		return nil, fmt.Errorf("failed to decode role counts: %w", err)
	}
	if m.Timestamps == nil {
		m.Timestamps = []time.Time{}
	}
	if m.Scores == nil {
		m.Scores = []int{}
	}
	return &m, nil
}

// GetMetrics retrieves the performance record for a user
func (db *DB) GetMetrics(ctx context.Context, userID uuid.UUID) (*types.PerformanceMetrics, error) {
	m, err := scanMetrics(db.pool.QueryRow(ctx,
		`SELECT `+metricsColumns+` FROM performance_metrics WHERE user_id = $1`, userID))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get performance metrics: %w", err)
	}
	return m, nil
}

// UpdateProgress locks the user, metrics and (when sessionID is set) session
// rows in that order, runs fn and writes the results in one transaction.
func (db *DB) UpdateProgress(ctx context.Context, userID, sessionID uuid.UUID, fn store.ProgressFunc) (bool, error) {
	applied := false
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		metrics, err := scanMetrics(tx.QueryRow(ctx,
			`SELECT `+metricsColumns+` FROM performance_metrics WHERE user_id = $1 FOR UPDATE`, userID))
		if err != nil {
			if notFound(err) {
				return store.ErrNotFound
			}
			return fmt.Errorf("failed to lock performance metrics: %w", err)
		}

		if sessionID != uuid.Nil {
			var recordedAt *time.Time
			err := tx.QueryRow(ctx,
				`SELECT progress_recorded_at FROM interview_sessions
				 WHERE id = $1 AND user_id = $2 FOR UPDATE`,
				sessionID, userID,
			).Scan(&recordedAt)
			if err != nil {
				if notFound(err) {
					return store.ErrNotFound
				}
				return fmt.Errorf("failed to lock session: %w", err)
			}
			if recordedAt != nil {
				return nil
			}
		}

		if err := fn(metrics, user); err != nil {
			return err
		}

		if err := writeMetrics(ctx, tx, metrics); err != nil {
			return err
		}
		if err := writeProgressFields(ctx, tx, user); err != nil {
			return err
		}
		if sessionID != uuid.Nil {
			if _, err := tx.Exec(ctx,
				`UPDATE interview_sessions SET progress_recorded_at = NOW(), updated_at = NOW() WHERE id = $1`,
				sessionID,
			); err != nil {
				return fmt.Errorf("failed to mark session recorded: %w", err)
			}
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// UpdateAccount locks the user row, runs fn and writes the progression
// fields back.
func (db *DB) UpdateAccount(ctx context.Context, userID uuid.UUID, fn store.AccountFunc) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := fn(user); err != nil {
			return err
		}
		return writeProgressFields(ctx, tx, user)
	})
}

func lockUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*types.User, error) {
	user, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID))
	if err != nil {
		if notFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	return user, nil
}

func writeMetrics(ctx context.Context, tx pgx.Tx, m *types.PerformanceMetrics) error {
	roles, err := json.Marshal(m.InterviewsByRole)
	if err != nil {
		return fmt.Errorf("failed to marshal role counts: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE performance_metrics
		 SET timestamps = $2, scores = $3, average_score = $4, progress_level = $5,
		     interviews_by_role = $6, improvement_rate = $7, updated_at = $8
		 WHERE user_id = $1`,
		m.UserID, m.Timestamps, m.Scores, m.AverageScore, string(m.ProgressLevel),
		roles, m.ImprovementRate, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update performance metrics: %w", err)
	}
	return nil
}

// writeProgressFields writes only the progression-owned columns so a
// concurrent profile edit is not overwritten.
func writeProgressFields(ctx context.Context, tx pgx.Tx, u *types.User) error {
	badges, err := json.Marshal(u.Badges)
	if err != nil {
		return fmt.Errorf("failed to marshal badges: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE users SET xp_points = $2, level = $3, badges = $4, ats_score = $5, updated_at = $6
		 WHERE id = $1`,
		u.ID, u.XPPoints, string(u.Level), badges, u.ATSScore, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user progress: %w", err)
	}
	return nil
}
