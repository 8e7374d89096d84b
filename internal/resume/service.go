// Package resume handles resume uploads and their ATS analysis.
package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/progression"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/store"
	"github.com/jonathan/interview-coach/internal/types"
)

// MaxFileSize is the upload limit in bytes.
const MaxFileSize int64 = 10_000_000

var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// FileUpload is a resume file received from a client.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service uploads and analyzes resumes.
type Service struct {
	resumes  store.ResumeStore
	accounts store.AccountStore
	files    FileStore
	parser   Parser
	scorer   scoring.ScoreProvider
	progress *progression.Service
	now      func() time.Time
}

// Options configures a Service.
type Options struct {
	Resumes  store.ResumeStore
	Accounts store.AccountStore
	Files    FileStore
	Parser   Parser
	Scorer   scoring.ScoreProvider
	Progress *progression.Service
}

// NewService creates a Service. Parser defaults to StubParser.
func NewService(opts Options) *Service {
	parser := opts.Parser
	if parser == nil {
		parser = StubParser{}
	}
	return &Service{
		resumes:  opts.Resumes,
		accounts: opts.Accounts,
		files:    opts.Files,
		parser:   parser,
		scorer:   opts.Scorer,
		progress: opts.Progress,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// fileType returns pdf, doc or docx when both the extension and the content
// type name an accepted document format.
func fileType(name, contentType string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case types.FileTypePDF, types.FileTypeDOC, types.FileTypeDOCX:
	default:
		return "", &types.ValidationError{Field: "resume", Message: "only PDF and Word documents are allowed"}
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !allowedContentTypes[mediaType] {
		return "", &types.ValidationError{Field: "resume", Message: "only PDF and Word documents are allowed"}
	}
	return ext, nil
}

// Upload stores the file, records a resume and points the user's resume URL
// at it.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, upload FileUpload) (*types.Resume, error) {
	ext, err := fileType(upload.Name, upload.ContentType)
	if err != nil {
		return nil, err
	}
	if upload.Size > MaxFileSize {
		return nil, &types.ValidationError{Field: "resume", Message: "file exceeds the 10MB limit"}
	}

	now := s.now()
	url, err := s.files.Save(ctx, StoredName(userID, now, ext), upload.Body, MaxFileSize)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return nil, &types.ValidationError{Field: "resume", Message: "file exceeds the 10MB limit"}
		}
		return nil, fmt.Errorf("failed to store resume file: %w", err)
	}

	parsed, err := s.parser.Parse(ctx, url, ext)
	if err != nil {
		s.discard(ctx, url)
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}

	resume := &types.Resume{
		ID:            uuid.New(),
		UserID:        userID,
		FileURL:       url,
		FileName:      filepath.Base(upload.Name),
		FileType:      ext,
		FileSize:      upload.Size,
		ParsedContent: parsed.Content,
		Skills:        parsed.Skills,
		CreatedAt:     now,
	}
	if err := s.resumes.CreateResume(ctx, resume); err != nil {
		s.discard(ctx, url)
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	if err := s.accounts.SetResumeURL(ctx, userID, url); err != nil {
		s.discard(ctx, url)
		if errors.Is(err, store.ErrNotFound) {
			return nil, &types.NotFoundError{Resource: "user", ID: userID}
		}
		return nil, fmt.Errorf("failed to update resume url: %w", err)
	}

	log.Printf("[resume] stored %s for user %s at %s", resume.ID, userID, url)
	return resume, nil
}

// discard removes a stored upload that no record will point to.
func (s *Service) discard(ctx context.Context, url string) {
	if err := s.files.Remove(ctx, url); err != nil {
		log.Printf("[resume] failed to remove orphaned upload %s: %v", url, err)
	}
}

// StoredName is the file name an upload is saved under:
// <userID>-<unix millis>.<ext>.
func StoredName(userID uuid.UUID, at time.Time, ext string) string {
	return fmt.Sprintf("%s-%d.%s", userID, at.UnixMilli(), ext)
}

// OwnerOf returns the user id encoded in a name produced by StoredName.
func OwnerOf(name string) (uuid.UUID, bool) {
	if name != filepath.Base(name) || len(name) < 37 || name[36] != '-' {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(name[:36])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// AnalyzeForRole scores a resume against role, stores the analysis and
// awards the resume-analysis XP.
func (s *Service) AnalyzeForRole(ctx context.Context, userID, resumeID uuid.UUID, role string) (*types.Resume, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, &types.ValidationError{Field: "role", Message: "role is required"}
	}

	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.scorer.AnalyzeResume(ctx, resume, role)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze resume: %w", err)
	}
	if err := schemas.Validate(schemas.ResumeAnalysis, analysis); err != nil {
		log.Printf("[resume] scorer returned invalid analysis for %s: %v", resumeID, err)
		return nil, fmt.Errorf("invalid analysis from scorer: %w", err)
	}

	resume.ApplyAnalysis(analysis, role, s.now())
	if err := s.resumes.SaveAnalysis(ctx, resume); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	if err := s.progress.AwardResumeAnalysis(ctx, userID, analysis.ATSScore); err != nil {
		return nil, err
	}
	return resume, nil
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]types.Resume, error) {
	resumes, err := s.resumes.ListResumesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// Get returns a resume owned by userID.
func (s *Service) Get(ctx context.Context, userID, resumeID uuid.UUID) (*types.Resume, error) {
	resume, err := s.resumes.GetResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if resume == nil {
		return nil, &types.NotFoundError{Resource: "resume", ID: resumeID}
	}
	if !resume.OwnedBy(userID) {
		return nil, &types.ForbiddenError{}
	}
	return resume, nil
}
