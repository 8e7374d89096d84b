package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintPlatformStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPlatformStats(&types.PlatformStats{
		Users:             12,
		Sessions:          40,
		CompletedSessions: 31,
		Resumes:           9,
		AverageScore:      78.25,
		UsersByLevel:      map[types.Level]int{types.LevelBeginner: 8, types.LevelIntermediate: 4},
		TopRoles: []types.RoleCount{
			{Role: "backend_engineer", Count: 10}, {Role: "qa", Count: 6}, {Role: "sre", Count: 5},
			{Role: "pm", Count: 4}, {Role: "designer", Count: 3}, {Role: "data_scientist", Count: 1},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "PLATFORM STATS")
	assert.Contains(t, output, "40 (31 completed)")
	assert.Contains(t, output, "78.2")
	assert.Contains(t, output, "backend_engineer (10)")
	assert.Contains(t, output, "... and 1 more")
	assert.NotContains(t, output, "data_scientist")
	assert.Contains(t, output, "Pro")
}

func TestPrintPlatformStats_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPlatformStats(nil)
	assert.Empty(t, buf.String())
}

func TestPrintUserProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	now := time.Now()
	u := types.NewUser("Lin", "lin@example.com", "hash", now)
	u.XPPoints = 1200
	u.Level = types.LevelIntermediate
	u.Badges = []types.Badge{{Name: "Intermediate Interviewer", EarnedAt: now}}

	m := types.NewPerformanceMetrics(u.ID, now)
	m.Scores = []int{60, 70, 80, 90, 85, 95}
	m.AverageScore = 80
	m.ImprovementRate = 18

	p.PrintUserProgress(u, m)
	output := buf.String()

	assert.Contains(t, output, "USER PROGRESS")
	assert.Contains(t, output, "Intermediate (1200 XP)")
	assert.Contains(t, output, "Intermediate Interviewer")
	assert.Contains(t, output, "+18.0")
	assert.Contains(t, output, "70 → 80 → 90 → 85 → 95")
}

// boxContent returns the lines between the title separator and the bottom
// border.
func boxContent(t *testing.T, out string) []string {
	t.Helper()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	return lines[3 : len(lines)-1]
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printBox("T", strings.Repeat("x", 100))

	content := boxContent(t, buf.String())
	require.Len(t, content, 1)
	assert.True(t, strings.HasPrefix(content[0], "│ "))
	assert.True(t, strings.HasSuffix(content[0], " │"))
	assert.Contains(t, content[0], strings.Repeat("x", boxWidth-7)+"...")
	assert.Equal(t, boxWidth, utf8.RuneCountInString(content[0]))
}

func TestPrintBox_MultibyteLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printBox("T", strings.Repeat("é", 40)+"\n"+strings.Repeat("ü", 80))

	out := buf.String()
	assert.True(t, utf8.ValidString(out))

	content := boxContent(t, out)
	require.Len(t, content, 2)
	assert.Contains(t, content[0], strings.Repeat("é", 40))
	assert.NotContains(t, content[0], "...")
	assert.Contains(t, content[1], strings.Repeat("ü", boxWidth-7)+"...")
	for _, line := range content {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line))
	}
}
