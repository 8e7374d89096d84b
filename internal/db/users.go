package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

const userColumns = `id, name, email, password_hash, xp_points, level, badges,
	resume_url, ats_score, history, created_at, updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	var level string
	var badges []byte
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.XPPoints, &level, &badges,
		&u.ResumeURL, &u.ATSScore, &u.History, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Level = types.Level(level)
	if err := json.Unmarshal(badges, &u.Badges); err != nil {
		return nil, fmt.Errorf("failed to decode badges: %w", err)
	}
	if u.Badges == nil {
		u.Badges = []types.Badge{}
	}
	if u.History == nil {
		u.History = []uuid.UUID{}
	}
	return &u, nil
}

// CreateAccount inserts the user and its empty metrics record together.
func (db *DB) CreateAccount(ctx context.Context, user *types.User, metrics *types.PerformanceMetrics) error {
	badges, err := json.Marshal(user.Badges)
	if err != nil {
		return fmt.Errorf("failed to marshal badges: %w", err)
	}
	roles, err := json.Marshal(metrics.InterviewsByRole)
	if err != nil {
		return fmt.Errorf("failed to marshal role counts: %w", err)
	}

	return db.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (id, name, email, password_hash, xp_points, level, badges,
			                    resume_url, ats_score, history, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			user.ID, user.Name, strings.ToLower(strings.TrimSpace(user.Email)), user.PasswordHash,
			user.XPPoints, string(user.Level), badges, user.ResumeURL, user.ATSScore,
			user.History, user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO performance_metrics (user_id, timestamps, scores, average_score, progress_level,
			                                  interviews_by_role, improvement_rate, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			user.ID, metrics.Timestamps, metrics.Scores, metrics.AverageScore, string(metrics.ProgressLevel),
			roles, metrics.ImprovementRate, metrics.CreatedAt, metrics.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create performance metrics: %w", err)
		}
		return nil
	})
}

// GetUser retrieves a user by ID
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, ignoring case
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	u, err := scanUser(db.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = $1`, email))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// UpdateProfile writes name, email and password hash only.
func (db *DB) UpdateProfile(ctx context.Context, user *types.User) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, updated_at = NOW() WHERE id = $1`,
		user.ID, user.Name, strings.ToLower(strings.TrimSpace(user.Email)), user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailTaken
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetResumeURL points the user at their latest resume upload.
func (db *DB) SetResumeURL(ctx context.Context, userID uuid.UUID, url string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET resume_url = $2, updated_at = NOW() WHERE id = $1`, userID, url)
	if err != nil {
		return fmt.Errorf("failed to set resume url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteUser removes a user and, through cascades, everything they own.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
