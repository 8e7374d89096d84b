package resume

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/progression"
	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/store/memory"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc  *Service
	st   *memory.Store
	dir  string
	user *types.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	dir := t.TempDir()
	files, err := NewLocalFileStore(dir, "/uploads")
	require.NoError(t, err)

	u := types.NewUser("Resume Owner", "owner-"+uuid.NewString()+"@example.com", "hash", fixedNow)
	require.NoError(t, st.CreateAccount(context.Background(), u, types.NewPerformanceMetrics(u.ID, fixedNow)))

	clock := func() time.Time { return fixedNow }
	svc := NewService(Options{
		Resumes:  st,
		Accounts: st,
		Files:    files,
		Scorer:   scoring.NewSeededProvider(11, 12),
		Progress: progression.NewService(st).WithClock(clock),
	}).WithClock(clock)

	return &fixture{svc: svc, st: st, dir: dir, user: u}
}

func pdfUpload(body string) FileUpload {
	return FileUpload{
		Name:        "My Resume.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func TestUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Upload(ctx, f.user.ID, pdfUpload("%PDF-1.7 resume"))
	require.NoError(t, err)

	wantName := f.user.ID.String() + "-" + "1777887000000" + ".pdf"
	assert.Equal(t, "/uploads/"+wantName, r.FileURL)
	assert.Equal(t, "My Resume.pdf", r.FileName)
	assert.Equal(t, types.FileTypePDF, r.FileType)
	assert.Equal(t, "Sample parsed resume content", r.ParsedContent)
	assert.Equal(t, []string{"JavaScript", "React", "Node.js", "MongoDB"}, r.Skills)

	data, err := os.ReadFile(filepath.Join(f.dir, wantName))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 resume", string(data))

	u, _ := f.st.GetUser(ctx, f.user.ID)
	assert.Equal(t, r.FileURL, u.ResumeURL)
}

func TestUpload_RejectsFileTypes(t *testing.T) {
	f := newFixture(t)

	cases := []FileUpload{
		{Name: "resume.txt", ContentType: "text/plain"},
		{Name: "resume.pdf", ContentType: "image/png"},
		{Name: "resume.exe", ContentType: "application/pdf"},
		{Name: "resume", ContentType: "application/pdf"},
	}
	for _, c := range cases {
		c.Body = strings.NewReader("x")
		c.Size = 1
		_, err := f.svc.Upload(context.Background(), f.user.ID, c)
		var ve *types.ValidationError
		assert.ErrorAs(t, err, &ve, c.Name)
	}
}

func TestUpload_AcceptsWordDocuments(t *testing.T) {
	f := newFixture(t)

	r, err := f.svc.Upload(context.Background(), f.user.ID, FileUpload{
		Name:        "cv.DOCX",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Size:        4,
		Body:        strings.NewReader("docx"),
	})
	require.NoError(t, err)
	assert.Equal(t, types.FileTypeDOCX, r.FileType)
}

func TestUpload_TooLarge(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Upload(context.Background(), f.user.ID, FileUpload{
		Name: "big.pdf", ContentType: "application/pdf", Size: MaxFileSize + 1, Body: strings.NewReader(""),
	})
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)

	// A body longer than its declared size is still capped.
	body := bytes.Repeat([]byte("a"), int(MaxFileSize)+1)
	_, err = f.svc.Upload(context.Background(), f.user.ID, FileUpload{
		Name: "liar.pdf", ContentType: "application/pdf", Size: 10, Body: bytes.NewReader(body),
	})
	require.ErrorAs(t, err, &ve)

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyzeForRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.Upload(ctx, f.user.ID, pdfUpload("resume"))
	require.NoError(t, err)

	analyzed, err := f.svc.AnalyzeForRole(ctx, f.user.ID, r.ID, " Frontend Developer ")
	require.NoError(t, err)
	assert.Equal(t, "Frontend Developer", analyzed.ComparedJobRole)
	assert.GreaterOrEqual(t, analyzed.ATSScore, 60)
	require.NotNil(t, analyzed.AnalyzedAt)
	assert.Len(t, analyzed.ImprovementSuggestions, 3)

	stored, _ := f.st.GetResume(ctx, r.ID)
	assert.Equal(t, analyzed.ATSScore, stored.ATSScore)

	u, _ := f.st.GetUser(ctx, f.user.ID)
	assert.Equal(t, progression.ResumeAnalysisXP, u.XPPoints)
	assert.Equal(t, analyzed.ATSScore, u.ATSScore)
}

func TestAnalyzeForRole_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.Upload(ctx, f.user.ID, pdfUpload("resume"))
	require.NoError(t, err)

	var ve *types.ValidationError
	_, err = f.svc.AnalyzeForRole(ctx, f.user.ID, r.ID, "  ")
	assert.ErrorAs(t, err, &ve)

	var nf *types.NotFoundError
	_, err = f.svc.AnalyzeForRole(ctx, f.user.ID, uuid.New(), "QA")
	assert.ErrorAs(t, err, &nf)

	var fe *types.ForbiddenError
	_, err = f.svc.AnalyzeForRole(ctx, uuid.New(), r.ID, "QA")
	assert.ErrorAs(t, err, &fe)

	u, _ := f.st.GetUser(ctx, f.user.ID)
	assert.Zero(t, u.XPPoints)
}

// failingResumes rejects every insert.
type failingResumes struct {
	*memory.Store
}

func (failingResumes) CreateResume(context.Context, *types.Resume) error {
	return errors.New("connection reset")
}

func uploadedFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestUpload_RemovesFileWhenRecordFails(t *testing.T) {
	f := newFixture(t)
	f.svc.resumes = failingResumes{f.st}

	_, err := f.svc.Upload(context.Background(), f.user.ID, pdfUpload("%PDF-1.7 resume"))
	require.ErrorContains(t, err, "failed to create resume")
	assert.Empty(t, uploadedFiles(t, f.dir))
}

func TestUpload_RemovesFileForUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Upload(context.Background(), uuid.New(), pdfUpload("%PDF-1.7 resume"))
	var nf *types.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, uploadedFiles(t, f.dir))
}

func TestStoredNameRoundTrip(t *testing.T) {
	id := uuid.New()
	name := StoredName(id, fixedNow, types.FileTypeDOCX)

	owner, ok := OwnerOf(name)
	require.True(t, ok)
	assert.Equal(t, id, owner)

	for _, bad := range []string{"", "cv.pdf", "../" + name, id.String() + ".pdf", "not-a-uuid-at-all-not-a-uuid-at-all-1.pdf"} {
		_, ok := OwnerOf(bad)
		assert.False(t, ok, bad)
	}
}

func TestLocalFileStore_Remove(t *testing.T) {
	dir := t.TempDir()
	files, err := NewLocalFileStore(dir, "/uploads")
	require.NoError(t, err)

	url, err := files.Save(context.Background(), "a.pdf", strings.NewReader("x"), 10)
	require.NoError(t, err)
	require.NoError(t, files.Remove(context.Background(), url))
	assert.Empty(t, uploadedFiles(t, dir))

	assert.NoError(t, files.Remove(context.Background(), url), "missing file is ignored")
}

func TestListAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Upload(ctx, f.user.ID, pdfUpload("one"))
	require.NoError(t, err)
	f.svc.WithClock(func() time.Time { return fixedNow.Add(time.Minute) })
	second, err := f.svc.Upload(ctx, f.user.ID, pdfUpload("two"))
	require.NoError(t, err)

	list, err := f.svc.List(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	got, err := f.svc.Get(ctx, f.user.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.FileURL, got.FileURL)

	other, err := f.svc.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
