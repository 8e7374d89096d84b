// Package observability renders operator-facing summaries for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the stats command
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPlatformStats outputs totals, the level distribution and top roles.
func (p *Printer) PrintPlatformStats(stats *types.PlatformStats) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Users:              %d\n", stats.Users)
	fmt.Fprintf(&sb, "Sessions:           %d (%d completed)\n", stats.Sessions, stats.CompletedSessions)
	fmt.Fprintf(&sb, "Resumes:            %d\n", stats.Resumes)
	fmt.Fprintf(&sb, "Average score:      %.1f\n", stats.AverageScore)

	sb.WriteString("\nUsers by level:\n")
	for _, level := range []types.Level{types.LevelBeginner, types.LevelIntermediate, types.LevelAdvanced, types.LevelPro} {
		fmt.Fprintf(&sb, "  • %-14s %d\n", level, stats.UsersByLevel[level])
	}

	if len(stats.TopRoles) > 0 {
		sb.WriteString("\nTop roles:\n")
		count := min(len(stats.TopRoles), maxItemsToShow)
		for _, rc := range stats.TopRoles[:count] {
			fmt.Fprintf(&sb, "  • %s (%d)\n", rc.Role, rc.Count)
		}
		if len(stats.TopRoles) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(stats.TopRoles)-maxItemsToShow)
		}
	}

	p.printBox("PLATFORM STATS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUserProgress outputs one user's account tier, badges and score trend.
func (p *Printer) PrintUserProgress(user *types.User, metrics *types.PerformanceMetrics) {
	if user == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "User:     %s <%s>\n", user.Name, user.Email)
	fmt.Fprintf(&sb, "Level:    %s (%d XP)\n", user.Level, user.XPPoints)
	fmt.Fprintf(&sb, "ATS:      %d\n", user.ATSScore)

	if len(user.Badges) > 0 {
		sb.WriteString("\nBadges:\n")
		for _, b := range user.Badges {
			fmt.Fprintf(&sb, "  • %s\n", b.Name)
		}
	}

	if metrics != nil {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "Interviews:   %d\n", metrics.InterviewCount())
		fmt.Fprintf(&sb, "Average:      %d\n", metrics.AverageScore)
		fmt.Fprintf(&sb, "Progress:     %s\n", metrics.ProgressLevel)
		fmt.Fprintf(&sb, "Improvement:  %+.1f\n", metrics.ImprovementRate)

		if n := len(metrics.Scores); n > 0 {
			recent := metrics.Scores[max(0, n-maxItemsToShow):]
			parts := make([]string, len(recent))
			for i, s := range recent {
				parts[i] = fmt.Sprint(s)
			}
			fmt.Fprintf(&sb, "Recent:       %s\n", strings.Join(parts, " → "))
		}
	}

	p.printBox("USER PROGRESS", strings.TrimSuffix(sb.String(), "\n"))
}
