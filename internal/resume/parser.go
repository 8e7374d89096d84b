package resume

import "context"

// Parsed is the text and skills extracted from a resume file.
type Parsed struct {
	Content string
	Skills  []string
}

// Parser extracts text from a stored resume.
type Parser interface {
	Parse(ctx context.Context, fileURL, fileType string) (Parsed, error)
}

// StubParser returns fixed content for every file.
type StubParser struct{}

func (StubParser) Parse(context.Context, string, string) (Parsed, error) {
	return Parsed{
		Content: "Sample parsed resume content",
		Skills:  []string{"JavaScript", "React", "Node.js", "MongoDB"},
	}, nil
}
