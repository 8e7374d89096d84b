// Package ingestion turns job descriptions submitted with a new interview
// session, pasted or fetched from a posting URL, into normalized text.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`\s+`)
	blankStreak = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes line endings and spacing while keeping headings,
// bullet lists and paragraph breaks. At most one blank line is kept between
// paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankStreak.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}
	if isBulletLine(trimmed) {
		marker, rest, _ := strings.Cut(trimmed, " ")
		return marker + " " + innerSpace.ReplaceAllString(strings.TrimSpace(rest), " ")
	}
	return innerSpace.ReplaceAllString(trimmed, " ")
}

func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "• ") || strings.HasPrefix(line, "· ")
}
