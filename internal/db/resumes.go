package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

const resumeColumns = `id, user_id, file_url, file_name, file_type, file_size, parsed_content, skills,
	ats_score, formatting_issues, grammar_issues, improvement_suggestions, keyword_match,
	compared_job_role, analyzed_at, created_at`

func scanResume(row pgx.Row) (*types.Resume, error) {
	var r types.Resume
	err := row.Scan(&r.ID, &r.UserID, &r.FileURL, &r.FileName, &r.FileType, &r.FileSize,
		&r.ParsedContent, &r.Skills, &r.ATSScore, &r.FormattingIssues, &r.GrammarIssues,
		&r.ImprovementSuggestions, &r.KeywordMatch, &r.ComparedJobRole, &r.AnalyzedAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CreateResume inserts a resume record
func (db *DB) CreateResume(ctx context.Context, r *types.Resume) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resumes (id, user_id, file_url, file_name, file_type, file_size,
		                      parsed_content, skills, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.UserID, r.FileURL, r.FileName, r.FileType, r.FileSize,
		r.ParsedContent, orEmpty(r.Skills), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// GetResume retrieves a resume by ID
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*types.Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumesByUser returns a user's resumes, newest first
func (db *DB) ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]types.Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// CountResumesByUser returns how many resumes a user has uploaded
func (db *DB) CountResumesByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM resumes WHERE user_id = $1`, userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count resumes: %w", err)
	}
	return n, nil
}

// SaveAnalysis writes the analysis columns of a resume
func (db *DB) SaveAnalysis(ctx context.Context, r *types.Resume) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes
		 SET ats_score = $2, formatting_issues = $3, grammar_issues = $4,
		     improvement_suggestions = $5, keyword_match = $6, compared_job_role = $7, analyzed_at = $8
		 WHERE id = $1`,
		r.ID, r.ATSScore, orEmpty(r.FormattingIssues), orEmpty(r.GrammarIssues),
		orEmpty(r.ImprovementSuggestions), r.KeywordMatch, r.ComparedJobRole, r.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
