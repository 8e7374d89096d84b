// Package store defines the persistence contracts used by the interview coach
// services. Implementations live in internal/db (PostgreSQL) and
// internal/store/memory (in-process).
//
// Getters return (nil, nil) when the record does not exist.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/types"
)

// ErrEmailTaken is returned by CreateAccount and UpdateProfile when another
// account already uses the email.
var ErrEmailTaken = errors.New("email already registered")

// ErrNotFound is returned by updates that target a missing record.
var ErrNotFound = errors.New("record not found")

// AccountStore holds one user record per account.
type AccountStore interface {
	// CreateAccount inserts the user and its empty metrics record together.
	CreateAccount(ctx context.Context, user *types.User, metrics *types.PerformanceMetrics) error
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	// UpdateProfile writes name, email and password hash only.
	UpdateProfile(ctx context.Context, user *types.User) error
	SetResumeURL(ctx context.Context, userID uuid.UUID, url string) error
}

// MetricsStore holds one performance record per user.
type MetricsStore interface {
	GetMetrics(ctx context.Context, userID uuid.UUID) (*types.PerformanceMetrics, error)
}

// SessionStore holds interview sessions.
type SessionStore interface {
	// CreateSession inserts the session and appends its id to the owner's history.
	CreateSession(ctx context.Context, session *types.InterviewSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*types.InterviewSession, error)
	// ListSessionsByUser returns sessions newest first.
	ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]types.InterviewSession, error)
	CountSessionsByUser(ctx context.Context, userID uuid.UUID) (int, error)
	// SaveAnswer overwrites a single answer slot.
	SaveAnswer(ctx context.Context, sessionID uuid.UUID, index int, answer types.Answer) error
	// SaveFeedback stores feedback, transcript and summary and stamps
	// FeedbackGeneratedAt. The first write wins: when feedback is already
	// stored nothing changes. The session is returned as stored.
	SaveFeedback(ctx context.Context, sessionID uuid.UUID, feedback types.Feedback, transcript, summary string) (*types.InterviewSession, error)
	SetReportURL(ctx context.Context, sessionID uuid.UUID, url string) error
}

// ResumeStore holds uploaded resumes.
type ResumeStore interface {
	CreateResume(ctx context.Context, resume *types.Resume) error
	GetResume(ctx context.Context, id uuid.UUID) (*types.Resume, error)
	// ListResumesByUser returns resumes newest first.
	ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]types.Resume, error)
	CountResumesByUser(ctx context.Context, userID uuid.UUID) (int, error)
	SaveAnalysis(ctx context.Context, resume *types.Resume) error
}

// ProgressFunc mutates the locked metrics and user records in place.
type ProgressFunc func(metrics *types.PerformanceMetrics, user *types.User) error

// AccountFunc mutates the locked user record in place.
type AccountFunc func(user *types.User) error

// ProgressStore performs the read-modify-write updates that must not race for
// a single user.
type ProgressStore interface {
	// UpdateProgress loads the user's metrics and account under a per-user
	// exclusive scope, runs fn, and persists both records. When sessionID is
	// already marked as recorded, fn is not run and applied is false;
	// otherwise the session is marked in the same atomic step.
	UpdateProgress(ctx context.Context, userID, sessionID uuid.UUID, fn ProgressFunc) (applied bool, err error)
	// UpdateAccount loads the user under the same exclusive scope, runs fn,
	// and persists XP, level, badges and ATS score.
	UpdateAccount(ctx context.Context, userID uuid.UUID, fn AccountFunc) error
}

// Store is the full persistence surface.
type Store interface {
	AccountStore
	MetricsStore
	SessionStore
	ResumeStore
	ProgressStore
	Close()
}
