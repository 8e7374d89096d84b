package types

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Emotion is the dominant tone detected in an interview.
type Emotion string

// Emotion labels.
const (
	EmotionNeutral   Emotion = "Neutral"
	EmotionPositive  Emotion = "Positive"
	EmotionNegative  Emotion = "Negative"
	EmotionConfident Emotion = "Confident"
	EmotionNervous   Emotion = "Nervous"
)

// Emotions lists every emotion label a feedback record may carry.
var Emotions = []Emotion{EmotionNeutral, EmotionPositive, EmotionNegative, EmotionConfident, EmotionNervous}

// Question is one prompt in an interview.
type Question struct {
	Text        string `json:"text"`
	TTSAudioURL string `json:"tts_audio_url"`
}

// Answer is the response recorded for the question at the same index.
type Answer struct {
	Text     string `json:"text"`
	AudioURL string `json:"audio_url"`
}

// Feedback is the scored evaluation of a completed interview.
type Feedback struct {
	Clarity      int      `json:"clarity"`
	Confidence   int      `json:"confidence"`
	FillerWords  int      `json:"filler_words"`
	Emotion      Emotion  `json:"emotion"`
	KeywordUsage int      `json:"keyword_usage"`
	Suggestions  []string `json:"suggestions"`
	OverallScore int      `json:"overall_score"`
}

// InterviewSession is one interview attempt. Answers is always the same
// length as Questions.
type InterviewSession struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	Role                string     `json:"role"`
	JobDescription      string     `json:"job_description"`
	Questions           []Question `json:"questions"`
	Answers             []Answer   `json:"answers"`
	Transcript          string     `json:"transcript"`
	Feedback            *Feedback  `json:"feedback,omitempty"`
	Summary             string     `json:"summary"`
	ReportURL           string     `json:"report_url,omitempty"`
	FeedbackGeneratedAt *time.Time `json:"feedback_generated_at,omitempty"`
	ProgressRecordedAt  *time.Time `json:"progress_recorded_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewInterviewSession builds a session with one blank answer per question.
func NewInterviewSession(userID uuid.UUID, role, jobDescription string, questions []Question, now time.Time) *InterviewSession {
	return &InterviewSession{
		ID:             uuid.New(),
		UserID:         userID,
		Role:           role,
		JobDescription: jobDescription,
		Questions:      questions,
		Answers:        make([]Answer, len(questions)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// OwnedBy reports whether the session belongs to userID.
func (s *InterviewSession) OwnedBy(userID uuid.UUID) bool {
	return s.UserID == userID
}

// HasFeedback reports whether feedback was already generated and stored.
func (s *InterviewSession) HasFeedback() bool {
	return s.Feedback != nil && s.FeedbackGeneratedAt != nil
}

// Clone returns a deep copy.
func (s *InterviewSession) Clone() *InterviewSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Questions = slices.Clone(s.Questions)
	c.Answers = slices.Clone(s.Answers)
	if s.Feedback != nil {
		fb := *s.Feedback
		fb.Suggestions = slices.Clone(s.Feedback.Suggestions)
		c.Feedback = &fb
	}
	if s.FeedbackGeneratedAt != nil {
		t := *s.FeedbackGeneratedAt
		c.FeedbackGeneratedAt = &t
	}
	if s.ProgressRecordedAt != nil {
		t := *s.ProgressRecordedAt
		c.ProgressRecordedAt = &t
	}
	return &c
}
