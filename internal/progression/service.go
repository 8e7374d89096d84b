package progression

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

// Service applies the progression rules to stored records. Each call runs
// inside the store's per-user exclusive scope so concurrent completions for
// one user cannot lose updates.
type Service struct {
	store store.ProgressStore
	now   func() time.Time
}

// NewService creates a Service backed by the given store.
func NewService(s store.ProgressStore) *Service {
	return &Service{store: s, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RecordInterview applies a completed interview's overall score. It returns
// false without changing anything when the session was already recorded.
func (s *Service) RecordInterview(ctx context.Context, userID, sessionID uuid.UUID, role string, score int) (bool, error) {
	if score < 0 || score > 100 {
		return false, &types.ValidationError{Field: "overall_score", Message: fmt.Sprintf("must be within [0,100], got %d", score)}
	}

	var promoted types.Level
	applied, err := s.store.UpdateProgress(ctx, userID, sessionID, func(m *types.PerformanceMetrics, u *types.User) error {
		before := u.Level
		nm, nu := Apply(m, u, role, score, s.now())
		*m = *nm
		*u = *nu
		if nu.Level != before {
			promoted = nu.Level
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, &types.NotFoundError{Resource: "performance metrics", ID: userID}
		}
		return false, fmt.Errorf("failed to record interview progress: %w", err)
	}

	if !applied {
		log.Printf("[progression] session %s already recorded for user %s", sessionID, userID)
		return false, nil
	}
	if promoted != "" {
		log.Printf("[progression] user %s promoted to %s", userID, promoted)
	}
	return true, nil
}

// AwardResumeAnalysis stores the latest ATS score on the account and awards
// the resume-analysis XP through the shared ladder.
func (s *Service) AwardResumeAnalysis(ctx context.Context, userID uuid.UUID, atsScore int) error {
	err := s.store.UpdateAccount(ctx, userID, func(u *types.User) error {
		nu := AwardXP(u, ResumeAnalysisXP, s.now())
		nu.ATSScore = atsScore
		*u = *nu
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &types.NotFoundError{Resource: "user", ID: userID}
		}
		return fmt.Errorf("failed to award resume analysis: %w", err)
	}
	return nil
}
