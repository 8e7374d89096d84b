// Package scoring produces interview feedback and resume ATS analysis.
//
// The only provider today draws scores at random; ScoreProvider exists so a
// real scorer can replace it without touching callers.
package scoring

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/jonathan/interview-coach/internal/types"
)

// ScoreProvider evaluates interviews and resumes.
type ScoreProvider interface {
	// ScoreInterview evaluates a session whose transcript has been built.
	ScoreInterview(ctx context.Context, session *types.InterviewSession, transcript string) (types.Feedback, error)
	// AnalyzeResume evaluates a resume against a job role.
	AnalyzeResume(ctx context.Context, resume *types.Resume, role string) (types.ResumeAnalysis, error)
}

var interviewSuggestions = []string{
	"Try to be more specific with your examples",
	"Use more industry-specific terminology",
	"Elaborate more on your achievements",
}

var (
	formattingIssues = []string{
		"Consider using bullet points for better readability",
		"Add more white space between sections",
	}
	grammarIssues = []string{
		"Check for passive voice in your experience section",
		"Ensure consistent tense usage throughout",
	}
	improvementSuggestions = []string{
		"Add more quantifiable achievements",
		"Include relevant keywords from the job description",
		"Highlight specific technical skills more prominently",
	}
)

var randomEmotions = []types.Emotion{types.EmotionNeutral, types.EmotionPositive, types.EmotionConfident}

// RandomProvider returns scores uniformly drawn from [60,100) and a fixed set
// of suggestions. Safe for concurrent use.
type RandomProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ ScoreProvider = (*RandomProvider)(nil)

// NewRandomProvider creates a provider seeded from the clock.
func NewRandomProvider() *RandomProvider {
	seed := uint64(time.Now().UnixNano())
	return NewSeededProvider(seed, seed>>1)
}

// NewSeededProvider creates a provider with a fixed PCG seed.
func NewSeededProvider(seed1, seed2 uint64) *RandomProvider {
	return &RandomProvider{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// highScore returns a value in [60,100). Caller holds mu.
func (p *RandomProvider) highScore() int {
	return 60 + p.rng.IntN(40)
}

func (p *RandomProvider) ScoreInterview(_ context.Context, _ *types.InterviewSession, _ string) (types.Feedback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return types.Feedback{
		Clarity:      p.highScore(),
		Confidence:   p.highScore(),
		FillerWords:  p.rng.IntN(10),
		Emotion:      randomEmotions[p.rng.IntN(len(randomEmotions))],
		KeywordUsage: p.highScore(),
		Suggestions:  slices.Clone(interviewSuggestions),
		OverallScore: p.highScore(),
	}, nil
}

func (p *RandomProvider) AnalyzeResume(_ context.Context, _ *types.Resume, _ string) (types.ResumeAnalysis, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return types.ResumeAnalysis{
		ATSScore:               p.highScore(),
		FormattingIssues:       slices.Clone(formattingIssues),
		GrammarIssues:          slices.Clone(grammarIssues),
		ImprovementSuggestions: slices.Clone(improvementSuggestions),
		KeywordMatch:           p.highScore(),
	}, nil
}
