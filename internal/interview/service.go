// Package interview runs mock interview sessions: it opens a session with
// generated questions, records answers and turns a finished session into
// scored feedback that feeds the progression engine.
package interview

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/progression"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

// PostingSource fetches a job description from a posting URL.
type PostingSource interface {
	FetchJobDescription(ctx context.Context, url string) (string, error)
}

// Service orchestrates interview sessions.
type Service struct {
	sessions      store.SessionStore
	postings      PostingSource
	questions     questions.Generator
	scorer        scoring.ScoreProvider
	progress      *progression.Service
	questionCount int
	now           func() time.Time
}

// Options configures a Service.
type Options struct {
	Sessions      store.SessionStore
	Postings      PostingSource
	Questions     questions.Generator
	Scorer        scoring.ScoreProvider
	Progress      *progression.Service
	QuestionCount int
}

// NewService creates a Service. QuestionCount defaults to questions.DefaultCount.
func NewService(opts Options) *Service {
	count := opts.QuestionCount
	if count <= 0 {
		count = questions.DefaultCount
	}
	return &Service{
		sessions:      opts.Sessions,
		postings:      opts.Postings,
		questions:     opts.Questions,
		scorer:        opts.Scorer,
		progress:      opts.Progress,
		questionCount: count,
		now:           time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// StartInterview creates a session for role with blank answers and appends it
// to the user's history.
func (s *Service) StartInterview(ctx context.Context, userID uuid.UUID, role, jobDescription string) (*types.InterviewSession, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, &types.ValidationError{Field: "role", Message: "role is required"}
	}

	jd, err := ingestion.CleanJobDescription(jobDescription)
	if err != nil {
		return nil, &types.ValidationError{Field: "job_description", Message: err.Error()}
	}

	qs, err := s.questions.Generate(ctx, role, jd, s.questionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("question generator returned no questions")
	}

	session := types.NewInterviewSession(userID, role, jd, qs, s.now())
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[interview] started session %s for user %s (%s, %d questions)", session.ID, userID, role, len(qs))
	return session, nil
}

// StartFromPosting fetches the job posting at jobURL and starts an interview
// with its text as the job description.
func (s *Service) StartFromPosting(ctx context.Context, userID uuid.UUID, role, jobURL string) (*types.InterviewSession, error) {
	if strings.TrimSpace(role) == "" {
		return nil, &types.ValidationError{Field: "role", Message: "role is required"}
	}
	if s.postings == nil {
		return nil, &types.ValidationError{Field: "job_url", Message: "fetching job postings is not enabled"}
	}

	jd, err := s.postings.FetchJobDescription(ctx, jobURL)
	if err != nil {
		log.Printf("[interview] failed to fetch posting %s: %v", jobURL, err)
		return nil, &types.ValidationError{Field: "job_url", Message: "could not fetch job posting"}
	}
	return s.StartInterview(ctx, userID, role, jd)
}

// SubmitAnswer overwrites the answer at index. Concurrent writes to the same
// slot are last-write-wins.
func (s *Service) SubmitAnswer(ctx context.Context, userID, sessionID uuid.UUID, index int, answer, audioURL string) (*types.SubmitAnswerResult, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, &types.ValidationError{Field: "answer", Message: "answer is required"}
	}

	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.Questions) {
		return nil, &types.ValidationError{
			Field:   "question_index",
			Message: fmt.Sprintf("must be within [0,%d), got %d", len(session.Questions), index),
		}
	}

	if err := s.sessions.SaveAnswer(ctx, sessionID, index, types.Answer{Text: answer, AudioURL: audioURL}); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	result := &types.SubmitAnswerResult{
		Success:        true,
		IsLastQuestion: index == len(session.Questions)-1,
	}
	if !result.IsLastQuestion {
		next := index + 1
		result.NextQuestionIndex = &next
	}
	return result, nil
}

// GenerateFeedback scores a session, stores the result and records the
// score in the user's progression. Feedback is generated once per session;
// later calls return what was stored. Progression is applied once per
// session, and a call after a failed progression update retries it.
func (s *Service) GenerateFeedback(ctx context.Context, userID, sessionID uuid.UUID) (*types.FeedbackResult, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.HasFeedback() {
		session, err = s.score(ctx, session)
		if err != nil {
			return nil, err
		}
	}

	if session.ProgressRecordedAt == nil {
		if _, err := s.progress.RecordInterview(ctx, userID, session.ID, session.Role, session.Feedback.OverallScore); err != nil {
			return nil, err
		}
	}

	return &types.FeedbackResult{
		Feedback:   *session.Feedback,
		Transcript: session.Transcript,
		Summary:    session.Summary,
	}, nil
}

func (s *Service) score(ctx context.Context, session *types.InterviewSession) (*types.InterviewSession, error) {
	transcript := BuildTranscript(session)

	feedback, err := s.scorer.ScoreInterview(ctx, session, transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to score interview: %w", err)
	}
	if err := schemas.Validate(schemas.Feedback, feedback); err != nil {
		log.Printf("[interview] scorer returned invalid feedback for session %s: %v", session.ID, err)
		return nil, fmt.Errorf("invalid feedback from scorer: %w", err)
	}

	stored, err := s.sessions.SaveFeedback(ctx, session.ID, feedback, transcript, scoring.BuildSummary(feedback))
	if err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	log.Printf("[interview] feedback stored for session %s (overall %d)", session.ID, stored.Feedback.OverallScore)
	return stored, nil
}

// GetSession returns a session owned by userID.
func (s *Service) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.InterviewSession, error) {
	return s.load(ctx, userID, sessionID)
}

// ListSessions returns the user's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID) ([]types.InterviewSession, error) {
	sessions, err := s.sessions.ListSessionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Service) load(ctx context.Context, userID, sessionID uuid.UUID) (*types.InterviewSession, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, &types.NotFoundError{Resource: "interview session", ID: sessionID}
	}
	if !session.OwnedBy(userID) {
		return nil, &types.ForbiddenError{}
	}
	return session, nil
}
