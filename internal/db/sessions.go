package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

const sessionColumns = `id, user_id, role, job_description, questions, answers, transcript,
	feedback, summary, report_url, feedback_generated_at, progress_recorded_at, created_at, updated_at`

func scanSession(row pgx.Row) (*types.InterviewSession, error) {
	var s types.InterviewSession
	var questions, answers, feedback []byte
	err := row.Scan(&s.ID, &s.UserID, &s.Role, &s.JobDescription, &questions, &answers, &s.Transcript,
		&feedback, &s.Summary, &s.ReportURL, &s.FeedbackGeneratedAt, &s.ProgressRecordedAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &s.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	if len(feedback) > 0 {
		var fb types.Feedback
		if err := json.Unmarshal(feedback, &fb); err != nil {
			return nil, fmt.Errorf("failed to decode feedback: %w", err)
		}
		s.Feedback = &fb
	}
	return &s, nil
}

// CreateSession inserts the session and appends its id to the owner's history.
func (db *DB) CreateSession(ctx context.Context, session *types.InterviewSession) error {
	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	answers, err := json.Marshal(session.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	return db.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users SET history = array_append(history, $2), updated_at = NOW() WHERE id = $1`,
			session.UserID, session.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to append session to history: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO interview_sessions (id, user_id, role, job_description, questions, answers,
			                                 created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			session.ID, session.UserID, session.Role, session.JobDescription, questions, answers,
			session.CreatedAt, session.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	})
}

// GetSession retrieves a session by ID
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*types.InterviewSession, error) {
	s, err := scanSession(db.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM interview_sessions WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// ListSessionsByUser returns a user's sessions, newest first
func (db *DB) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]types.InterviewSession, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM interview_sessions
		 WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []types.InterviewSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// CountSessionsByUser returns how many sessions a user has started
func (db *DB) CountSessionsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM interview_sessions WHERE user_id = $1`, userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// SaveAnswer overwrites a single answer slot in place.
func (db *DB) SaveAnswer(ctx context.Context, sessionID uuid.UUID, index int, answer types.Answer) error {
	payload, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET answers = jsonb_set(answers, ARRAY[$2::text], $3::jsonb), updated_at = NOW()
		 WHERE id = $1 AND $4 >= 0 AND $4 < jsonb_array_length(answers)`,
		sessionID, strconv.Itoa(index), payload, index,
	)
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s has no answer slot %d: %w", sessionID, index, store.ErrNotFound)
	}
	return nil
}

// SaveFeedback stores feedback unless the session already has some, then
// returns the session as stored.
func (db *DB) SaveFeedback(ctx context.Context, sessionID uuid.UUID, feedback types.Feedback, transcript, summary string) (*types.InterviewSession, error) {
	payload, err := json.Marshal(feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feedback: %w", err)
	}

	if _, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET feedback = $2, transcript = $3, summary = $4,
		     feedback_generated_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND feedback IS NULL`,
		sessionID, payload, transcript, summary,
	); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	s, err := db.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, store.ErrNotFound
	}
	return s, nil
}

// SetReportURL stores the generated report link on a session.
func (db *DB) SetReportURL(ctx context.Context, sessionID uuid.UUID, url string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions SET report_url = $2, updated_at = NOW() WHERE id = $1`,
		sessionID, url,
	)
	if err != nil {
		return fmt.Errorf("failed to set report url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
