package types

import "github.com/google/uuid"

// StartInterviewRequest opens a new interview session. JobURL is fetched
// only when JobDescription is empty.
type StartInterviewRequest struct {
	Role           string `json:"role" validate:"required"`
	JobDescription string `json:"job_description,omitempty"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
}

// SubmitAnswerRequest records an answer. QuestionIndex is a pointer so a
// missing index is distinguishable from index zero.
type SubmitAnswerRequest struct {
	SessionID     uuid.UUID `json:"session_id" validate:"required"`
	QuestionIndex *int      `json:"question_index" validate:"required"`
	Answer        string    `json:"answer" validate:"required"`
	AudioURL      string    `json:"audio_url,omitempty"`
}

// SubmitAnswerResult tells the client where to go next.
type SubmitAnswerResult struct {
	Success           bool `json:"success"`
	IsLastQuestion    bool `json:"is_last_question"`
	NextQuestionIndex *int `json:"next_question_index"`
}

// FeedbackRequest asks for feedback on a session.
type FeedbackRequest struct {
	SessionID uuid.UUID `json:"session_id" validate:"required"`
}

// FeedbackResult is returned from feedback generation.
type FeedbackResult struct {
	Feedback   Feedback `json:"feedback"`
	Transcript string   `json:"transcript"`
	Summary    string   `json:"summary"`
}

// ATSScoreRequest asks for a resume analysis against a role.
type ATSScoreRequest struct {
	ResumeID uuid.UUID `json:"resume_id" validate:"required"`
	Role     string    `json:"role" validate:"required"`
}

// ReportRequest asks for a PDF report of an interview, optionally with a resume.
type ReportRequest struct {
	InterviewID uuid.UUID  `json:"interview_id" validate:"required"`
	ResumeID    *uuid.UUID `json:"resume_id,omitempty"`
}

// Dashboard is the aggregate view rendered on the home screen.
type Dashboard struct {
	InterviewCount int     `json:"interview_count"`
	ResumeCount    int     `json:"resume_count"`
	AverageScore   int     `json:"average_score"`
	ProgressLevel  Level   `json:"progress_level"`
	Level          Level   `json:"level"`
	XPPoints       int     `json:"xp_points"`
	ATSScore       int     `json:"ats_score"`
	Badges         []Badge `json:"badges"`
}
