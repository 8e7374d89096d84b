package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/store/memory"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *memory.Store, *types.User, *types.InterviewSession) {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	u := types.NewUser("Reporter", "rep-"+uuid.NewString()+"@example.com", "hash", fixedNow)
	require.NoError(t, st.CreateAccount(ctx, u, types.NewPerformanceMetrics(u.ID, fixedNow)))
	sess := types.NewInterviewSession(u.ID, "QA", "", []types.Question{{Text: "q"}}, fixedNow)
	require.NoError(t, st.CreateSession(ctx, sess))

	svc := NewService(st, st).WithClock(func() time.Time { return fixedNow })
	return svc, st, u, sess
}

func TestGenerateAndGet(t *testing.T) {
	svc, st, u, sess := setup(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, u.ID, sess.ID)
	var nf *types.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "report", nf.Resource)

	url, err := svc.Generate(ctx, u.ID, sess.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("/reports/%s-%d.pdf", sess.ID, fixedNow.UnixMilli()), url)

	got, err := svc.Get(ctx, u.ID, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, url, got)

	stored, _ := st.GetSession(ctx, sess.ID)
	assert.Equal(t, url, stored.ReportURL)
}

func TestGenerate_IgnoresForeignOrMissingResume(t *testing.T) {
	svc, st, u, sess := setup(t)
	ctx := context.Background()

	foreign := &types.Resume{ID: uuid.New(), UserID: uuid.New(), CreatedAt: fixedNow}
	require.NoError(t, st.CreateResume(ctx, foreign))

	for _, id := range []uuid.UUID{foreign.ID, uuid.New()} {
		url, err := svc.Generate(ctx, u.ID, sess.ID, &id)
		require.NoError(t, err)
		assert.NotEmpty(t, url)
	}
}

func TestGenerate_Ownership(t *testing.T) {
	svc, _, _, sess := setup(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, uuid.New(), sess.ID, nil)
	var fe *types.ForbiddenError
	assert.ErrorAs(t, err, &fe)

	_, err = svc.Get(ctx, uuid.New(), sess.ID)
	assert.ErrorAs(t, err, &fe)

	var nf *types.NotFoundError
	_, err = svc.Generate(ctx, uuid.New(), uuid.New(), nil)
	assert.ErrorAs(t, err, &nf)
}
