package ingestion

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/interview-coach/internal/fetch"
)

// RenderFunc renders a page in a browser and returns its HTML.
type RenderFunc func(ctx context.Context, url string, timeout time.Duration) (string, error)

// PostingFetcher turns a job posting URL into a cleaned job description.
type PostingFetcher struct {
	options    *fetch.Options
	useBrowser bool
	render     RenderFunc
}

// NewPostingFetcher creates a PostingFetcher. When useBrowser is set, pages
// whose static text is too short are rendered with headless Chrome.
func NewPostingFetcher(opts *fetch.Options, useBrowser bool) *PostingFetcher {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &PostingFetcher{options: opts, useBrowser: useBrowser, render: fetch.Render}
}

// WithRenderer replaces the browser renderer. Intended for tests.
func (f *PostingFetcher) WithRenderer(render RenderFunc) *PostingFetcher {
	f.render = render
	return f
}

// FetchJobDescription downloads the posting at url and returns its cleaned
// text, capped at MaxJobDescriptionLength.
func (f *PostingFetcher) FetchJobDescription(ctx context.Context, url string) (string, error) {
	platform := fetch.DetectPlatform(url)
	content := fetch.ContentSelectors(platform)
	noise := fetch.NoiseSelectors(platform)

	result, err := fetch.URL(ctx, url, f.options)
	if err != nil {
		return "", err
	}
	text, err := fetch.ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return "", err
	}

	if f.useBrowser && fetch.NeedsBrowser(text) {
		html, err := f.render(ctx, url, fetch.DefaultRenderTimeout)
		if err != nil {
			log.Printf("[ingestion] browser fallback failed for %s, keeping static text: %v", url, err)
		} else if rendered, err := fetch.ExtractMainText(html, content, noise...); err == nil {
			text = rendered
		}
	}

	log.Printf("[ingestion] fetched %s posting from %s (%d chars)", platform, url, len(text))
	return truncate(CleanText(text), MaxJobDescriptionLength), nil
}
