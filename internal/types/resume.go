package types

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Resume file types accepted on upload.
const (
	FileTypePDF  = "pdf"
	FileTypeDOC  = "doc"
	FileTypeDOCX = "docx"
)

// ResumeAnalysis is the ATS evaluation of a resume against one job role.
type ResumeAnalysis struct {
	ATSScore               int      `json:"ats_score"`
	FormattingIssues       []string `json:"formatting_issues"`
	GrammarIssues          []string `json:"grammar_issues"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	KeywordMatch           int      `json:"keyword_match"`
}

// Resume is an uploaded resume and its most recent analysis.
type Resume struct {
	ID                     uuid.UUID  `json:"id"`
	UserID                 uuid.UUID  `json:"user_id"`
	FileURL                string     `json:"file_url"`
	FileName               string     `json:"file_name"`
	FileType               string     `json:"file_type"`
	FileSize               int64      `json:"file_size"`
	ParsedContent          string     `json:"parsed_content,omitempty"`
	Skills                 []string   `json:"skills"`
	ATSScore               int        `json:"ats_score"`
	FormattingIssues       []string   `json:"formatting_issues,omitempty"`
	GrammarIssues          []string   `json:"grammar_issues,omitempty"`
	ImprovementSuggestions []string   `json:"improvement_suggestions,omitempty"`
	KeywordMatch           int        `json:"keyword_match"`
	ComparedJobRole        string     `json:"compared_job_role,omitempty"`
	AnalyzedAt             *time.Time `json:"analyzed_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// OwnedBy reports whether the resume belongs to userID.
func (r *Resume) OwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// ApplyAnalysis copies an analysis result onto the resume.
func (r *Resume) ApplyAnalysis(a ResumeAnalysis, role string, now time.Time) {
	r.ATSScore = a.ATSScore
	r.FormattingIssues = slices.Clone(a.FormattingIssues)
	r.GrammarIssues = slices.Clone(a.GrammarIssues)
	r.ImprovementSuggestions = slices.Clone(a.ImprovementSuggestions)
	r.KeywordMatch = a.KeywordMatch
	r.ComparedJobRole = role
	r.AnalyzedAt = &now
}

// Clone returns a deep copy.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	c := *r
	c.Skills = slices.Clone(r.Skills)
	c.FormattingIssues = slices.Clone(r.FormattingIssues)
	c.GrammarIssues = slices.Clone(r.GrammarIssues)
	c.ImprovementSuggestions = slices.Clone(r.ImprovementSuggestions)
	if r.AnalyzedAt != nil {
		t := *r.AnalyzedAt
		c.AnalyzedAt = &t
	}
	return &c
}
