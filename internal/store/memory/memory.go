// Package memory provides an in-process implementation of store.Store used
// by tests and by the server's --memory mode.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

// Store keeps every record in maps guarded by a single RWMutex. Progress
// updates additionally serialize on a per-user mutex so the read-modify-write
// of metrics and account cannot interleave for one user.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*types.User
	emails   map[string]uuid.UUID
	metrics  map[uuid.UUID]*types.PerformanceMetrics
	sessions map[uuid.UUID]*types.InterviewSession
	resumes  map[uuid.UUID]*types.Resume

	userLocks *keyedMutex
	now       func() time.Time
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		users:     make(map[uuid.UUID]*types.User),
		emails:    make(map[string]uuid.UUID),
		metrics:   make(map[uuid.UUID]*types.PerformanceMetrics),
		sessions:  make(map[uuid.UUID]*types.InterviewSession),
		resumes:   make(map[uuid.UUID]*types.Resume),
		userLocks: newKeyedMutex(),
		now:       time.Now,
	}
}

// Close is a no-op.
func (s *Store) Close() {}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ---------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------

func (s *Store) CreateAccount(_ context.Context, user *types.User, metrics *types.PerformanceMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := s.emails[key]; taken {
		return store.ErrEmailTaken
	}
	s.users[user.ID] = user.Clone()
	s.emails[key] = user.ID
	s.metrics[user.ID] = metrics.Clone()
	return nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id].Clone(), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[emailKey(email)]
	if !ok {
		return nil, nil
	}
	return s.users[id].Clone(), nil
}

func (s *Store) UpdateProfile(_ context.Context, user *types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return store.ErrNotFound
	}
	oldKey, newKey := emailKey(current.Email), emailKey(user.Email)
	if oldKey != newKey {
		if _, taken := s.emails[newKey]; taken {
			return store.ErrEmailTaken
		}
		delete(s.emails, oldKey)
		s.emails[newKey] = user.ID
	}
	current.Name = user.Name
	current.Email = user.Email
	current.PasswordHash = user.PasswordHash
	current.UpdatedAt = s.now()
	return nil
}

func (s *Store) SetResumeURL(_ context.Context, userID uuid.UUID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.ResumeURL = url
	u.UpdatedAt = s.now()
	return nil
}

// ---------------------------------------------------------------------
// Metrics and progress
// ---------------------------------------------------------------------

func (s *Store) GetMetrics(_ context.Context, userID uuid.UUID) (*types.PerformanceMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics[userID].Clone(), nil
}

func (s *Store) UpdateProgress(_ context.Context, userID, sessionID uuid.UUID, fn store.ProgressFunc) (bool, error) {
	unlock := s.userLocks.Lock(userID)
	defer unlock()

	s.mu.RLock()
	user := s.users[userID].Clone()
	metrics := s.metrics[userID].Clone()
	var session *types.InterviewSession
	if sessionID != uuid.Nil {
		session = s.sessions[sessionID]
		if session != nil && session.ProgressRecordedAt != nil {
			s.mu.RUnlock()
			return false, nil
		}
	}
	s.mu.RUnlock()

	if user == nil || metrics == nil {
		return false, store.ErrNotFound
	}
	if sessionID != uuid.Nil && session == nil {
		return false, store.ErrNotFound
	}

	if err := fn(metrics, user); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[userID] = metrics
	s.writeProgressFields(user)
	if current, ok := s.sessions[sessionID]; ok {
		now := s.now()
		current.ProgressRecordedAt = &now
		current.UpdatedAt = now
	}
	return true, nil
}

func (s *Store) UpdateAccount(_ context.Context, userID uuid.UUID, fn store.AccountFunc) error {
	unlock := s.userLocks.Lock(userID)
	defer unlock()

	s.mu.RLock()
	user := s.users[userID].Clone()
	s.mu.RUnlock()
	if user == nil {
		return store.ErrNotFound
	}

	if err := fn(user); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeProgressFields(user)
	return nil
}

// writeProgressFields copies only the progression-owned fields so a profile
// edit made while the user lock was held is not overwritten. Caller holds mu.
func (s *Store) writeProgressFields(u *types.User) {
	current, ok := s.users[u.ID]
	if !ok {
		return
	}
	current.XPPoints = u.XPPoints
	current.Level = u.Level
	current.Badges = slices.Clone(u.Badges)
	current.ATSScore = u.ATSScore
	current.UpdatedAt = u.UpdatedAt
}

// ---------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------

func (s *Store) CreateSession(_ context.Context, session *types.InterviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[session.UserID]
	if !ok {
		return store.ErrNotFound
	}
	s.sessions[session.ID] = session.Clone()
	u.History = append(u.History, session.ID)
	return nil
}

func (s *Store) GetSession(_ context.Context, id uuid.UUID) (*types.InterviewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id].Clone(), nil
}

func (s *Store) ListSessionsByUser(_ context.Context, userID uuid.UUID) ([]types.InterviewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []types.InterviewSession{}
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			out = append(out, *sess.Clone())
		}
	}
	slices.SortFunc(out, func(a, b types.InterviewSession) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(b.ID.String(), a.ID.String()))
	})
	return out, nil
}

func (s *Store) CountSessionsByUser(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) SaveAnswer(_ context.Context, sessionID uuid.UUID, index int, answer types.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	if index < 0 || index >= len(sess.Answers) {
		return fmt.Errorf("answer index %d out of range [0,%d)", index, len(sess.Answers))
	}
	sess.Answers[index] = answer
	sess.UpdatedAt = s.now()
	return nil
}

func (s *Store) SaveFeedback(_ context.Context, sessionID uuid.UUID, feedback types.Feedback, transcript, summary string) (*types.InterviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if sess.HasFeedback() {
		return sess.Clone(), nil
	}
	fb := feedback
	fb.Suggestions = slices.Clone(feedback.Suggestions)
	now := s.now()
	sess.Feedback = &fb
	sess.Transcript = transcript
	sess.Summary = summary
	sess.FeedbackGeneratedAt = &now
	sess.UpdatedAt = now
	return sess.Clone(), nil
}

func (s *Store) SetReportURL(_ context.Context, sessionID uuid.UUID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	sess.ReportURL = url
	sess.UpdatedAt = s.now()
	return nil
}

// ---------------------------------------------------------------------
// Resumes
// ---------------------------------------------------------------------

func (s *Store) CreateResume(_ context.Context, resume *types.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumes[resume.ID] = resume.Clone()
	return nil
}

func (s *Store) GetResume(_ context.Context, id uuid.UUID) (*types.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resumes[id].Clone(), nil
}

func (s *Store) ListResumesByUser(_ context.Context, userID uuid.UUID) ([]types.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []types.Resume{}
	for _, r := range s.resumes {
		if r.UserID == userID {
			out = append(out, *r.Clone())
		}
	}
	slices.SortFunc(out, func(a, b types.Resume) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(b.ID.String(), a.ID.String()))
	})
	return out, nil
}

func (s *Store) CountResumesByUser(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.resumes {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) SaveAnalysis(_ context.Context, resume *types.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resumes[resume.ID]; !ok {
		return store.ErrNotFound
	}
	s.resumes[resume.ID] = resume.Clone()
	return nil
}
