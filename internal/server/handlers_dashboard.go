package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/types"
	"golang.org/x/sync/errgroup"
)

// buildDashboard loads the account, metrics and counts concurrently.
func (s *Server) buildDashboard(ctx context.Context, userID uuid.UUID) (*types.Dashboard, error) {
	var (
		user       *types.User
		metrics    *types.PerformanceMetrics
		interviews int
		resumes    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.users.GetProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = s.users.Performance(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		interviews, err = s.store.CountSessionsByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		resumes, err = s.store.CountResumesByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.Dashboard{
		InterviewCount: interviews,
		ResumeCount:    resumes,
		AverageScore:   metrics.AverageScore,
		ProgressLevel:  metrics.ProgressLevel,
		Level:          user.Level,
		XPPoints:       user.XPPoints,
		ATSScore:       user.ATSScore,
		Badges:         user.Badges,
	}, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	dashboard, err := s.buildDashboard(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, dashboard)
}
