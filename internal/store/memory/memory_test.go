package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store, email string) *types.User {
	t.Helper()
	now := time.Now()
	u := types.NewUser("Test User", email, "hash", now)
	require.NoError(t, s.CreateAccount(context.Background(), u, types.NewPerformanceMetrics(u.ID, now)))
	return u
}

func seedSession(t *testing.T, s *Store, userID uuid.UUID) *types.InterviewSession {
	t.Helper()
	sess := types.NewInterviewSession(userID, "Backend Engineer", "", []types.Question{{Text: "q1"}, {Text: "q2"}}, time.Now())
	require.NoError(t, s.CreateSession(context.Background(), sess))
	return sess
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	s := New()
	seedUser(t, s, "dup@example.com")

	u := types.NewUser("Other", "DUP@example.com", "hash", time.Now())
	err := s.CreateAccount(context.Background(), u, types.NewPerformanceMetrics(u.ID, time.Now()))
	assert.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestGetUser_Missing(t *testing.T) {
	s := New()
	u, err := s.GetUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := New()
	seeded := seedUser(t, s, "ada@example.com")

	u, err := s.GetUserByEmail(context.Background(), "  ADA@example.com ")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, seeded.ID, u.ID)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	s := New()
	seedUser(t, s, "a@example.com")
	b := seedUser(t, s, "b@example.com")

	b.Email = "a@example.com"
	assert.ErrorIs(t, s.UpdateProfile(context.Background(), b), store.ErrEmailTaken)
}

func TestCreateSession_AppendsHistory(t *testing.T) {
	s := New()
	u := seedUser(t, s, "hist@example.com")
	sess := seedSession(t, s, u.ID)

	got, err := s.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{sess.ID}, got.History)
}

func TestSaveAnswer(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "ans@example.com")
	sess := seedSession(t, s, u.ID)

	require.NoError(t, s.SaveAnswer(ctx, sess.ID, 1, types.Answer{Text: "second"}))
	assert.Error(t, s.SaveAnswer(ctx, sess.ID, 2, types.Answer{Text: "oob"}))
	assert.ErrorIs(t, s.SaveAnswer(ctx, uuid.New(), 0, types.Answer{Text: "x"}), store.ErrNotFound)

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Answers[0].Text)
	assert.Equal(t, "second", got.Answers[1].Text)
}

func TestSaveFeedback_FirstWriteWins(t *testing.T) {
	s := New()
	u := seedUser(t, s, "fb@example.com")
	sess := seedSession(t, s, u.ID)

	first, err := s.SaveFeedback(context.Background(), sess.ID, types.Feedback{OverallScore: 70, Suggestions: []string{"a"}}, "t1", "s1")
	require.NoError(t, err)
	require.True(t, first.HasFeedback())

	second, err := s.SaveFeedback(context.Background(), sess.ID, types.Feedback{OverallScore: 95}, "t2", "s2")
	require.NoError(t, err)
	assert.Equal(t, 70, second.Feedback.OverallScore)
	assert.Equal(t, "t1", second.Transcript)
	assert.Equal(t, "s1", second.Summary)

	_, err = s.SaveFeedback(context.Background(), uuid.New(), types.Feedback{}, "", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetSession_ReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "copy@example.com")
	sess := seedSession(t, s, u.ID)

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	got.Answers[0].Text = "mutated"

	again, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Answers[0].Text)
}

func TestUpdateProgress_MarksSessionOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "once@example.com")
	sess := seedSession(t, s, u.ID)

	calls := 0
	fn := func(m *types.PerformanceMetrics, usr *types.User) error {
		calls++
		m.Scores = append(m.Scores, 80)
		usr.XPPoints += 100
		return nil
	}

	applied, err := s.UpdateProgress(ctx, u.ID, sess.ID, fn)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.UpdateProgress(ctx, u.ID, sess.ID, fn)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 1, calls)

	m, err := s.GetMetrics(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{80}, m.Scores)

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ProgressRecordedAt)
}

func TestUpdateProgress_UnknownUser(t *testing.T) {
	s := New()
	_, err := s.UpdateProgress(context.Background(), uuid.New(), uuid.Nil, func(*types.PerformanceMetrics, *types.User) error {
		return nil
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateProgress_FuncErrorLeavesRecords(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "err@example.com")
	sess := seedSession(t, s, u.ID)

	_, err := s.UpdateProgress(ctx, u.ID, sess.ID, func(m *types.PerformanceMetrics, usr *types.User) error {
		usr.XPPoints = 999
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.XPPoints)

	gotSess, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, gotSess.ProgressRecordedAt)
}

func TestUpdateAccount_ConcurrentNoLostUpdates(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "race@example.com")

	const workers = 40
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.UpdateAccount(ctx, u.ID, func(usr *types.User) error {
				usr.XPPoints += 50
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, workers*50, got.XPPoints)
	assert.Empty(t, s.userLocks.locks)
}

func TestListResumesByUser_NewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "res@example.com")
	base := time.Now()

	older := &types.Resume{ID: uuid.New(), UserID: u.ID, FileName: "old.pdf", CreatedAt: base.Add(-time.Hour)}
	newer := &types.Resume{ID: uuid.New(), UserID: u.ID, FileName: "new.pdf", CreatedAt: base}
	other := &types.Resume{ID: uuid.New(), UserID: uuid.New(), FileName: "x.pdf", CreatedAt: base}
	for _, r := range []*types.Resume{older, newer, other} {
		require.NoError(t, s.CreateResume(ctx, r))
	}

	list, err := s.ListResumesByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new.pdf", list[0].FileName)

	n, err := s.CountResumesByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
