// Package report attaches report links to finished interviews. Rendering is
// mocked: the link names a PDF that is never produced.
package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

// Service generates and looks up interview reports.
type Service struct {
	sessions store.SessionStore
	resumes  store.ResumeStore
	now      func() time.Time
}

// NewService creates a Service.
func NewService(sessions store.SessionStore, resumes store.ResumeStore) *Service {
	return &Service{sessions: sessions, resumes: resumes, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Generate creates a report for the interview and stores its URL on the
// session. A resume that is missing or owned by someone else is left out of
// the report rather than failing the request.
func (s *Service) Generate(ctx context.Context, userID, interviewID uuid.UUID, resumeID *uuid.UUID) (string, error) {
	session, err := s.owned(ctx, userID, interviewID)
	if err != nil {
		return "", err
	}

	// No document is rendered yet; only whether an owned resume was attached is recorded.
	var resume *types.Resume
	if resumeID != nil {
		resume, err = s.resumes.GetResume(ctx, *resumeID)
		if err != nil {
			return "", fmt.Errorf("failed to get resume: %w", err)
		}
		if resume != nil && !resume.OwnedBy(userID) {
			resume = nil
		}
	}

	url := fmt.Sprintf("/reports/%s-%d.pdf", session.ID, s.now().UnixMilli())
	if err := s.sessions.SetReportURL(ctx, session.ID, url); err != nil {
		return "", fmt.Errorf("failed to save report url: %w", err)
	}

	log.Printf("[report] generated %s for session %s (resume included: %t)", url, session.ID, resume != nil)
	return url, nil
}

// Get returns the stored report URL for an interview.
func (s *Service) Get(ctx context.Context, userID, interviewID uuid.UUID) (string, error) {
	session, err := s.owned(ctx, userID, interviewID)
	if err != nil {
		return "", err
	}
	if session.ReportURL == "" {
		return "", &types.NotFoundError{Resource: "report", ID: interviewID}
	}
	return session.ReportURL, nil
}

func (s *Service) owned(ctx context.Context, userID, interviewID uuid.UUID) (*types.InterviewSession, error) {
	session, err := s.sessions.GetSession(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, &types.NotFoundError{Resource: "interview session", ID: interviewID}
	}
	if !session.OwnedBy(userID) {
		return nil, &types.ForbiddenError{}
	}
	return session, nil
}
