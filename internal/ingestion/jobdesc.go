package ingestion

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// MaxJobDescriptionLength caps the stored job description, in runes.
const MaxJobDescriptionLength = 20000

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "tr": true, "header": true, "footer": true, "blockquote": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "head": true, "template": true,
}

// CleanJobDescription strips markup from a pasted job description and
// normalizes its text. Plain text is only normalized.
func CleanJobDescription(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}

	text := input
	if looksLikeHTML(input) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
		if err != nil {
			return "", fmt.Errorf("failed to parse job description HTML: %w", err)
		}
		var sb strings.Builder
		writeText(&sb, doc.Selection)
		text = sb.String()
	}

	return truncate(CleanText(text), MaxJobDescriptionLength), nil
}

func looksLikeHTML(s string) bool {
	open := strings.Index(s, "<")
	return open >= 0 && strings.Contains(s[open:], ">")
}

func writeText(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			sb.WriteString(s.Text())
		case skippedElements[name]:
		case name == "br":
			sb.WriteString("\n")
		case name == "li":
			sb.WriteString("\n- ")
			writeText(sb, s)
			sb.WriteString("\n")
		case blockElements[name]:
			sb.WriteString("\n\n")
			writeText(sb, s)
			sb.WriteString("\n\n")
		default:
			writeText(sb, s)
		}
	})
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}
