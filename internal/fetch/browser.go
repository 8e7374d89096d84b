package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP
// fetch before falling back to browser rendering.
const MinContentLength = 500

// DefaultRenderTimeout bounds a headless render.
const DefaultRenderTimeout = 30 * time.Second

// NeedsBrowser reports whether extracted text is too short to be the page's
// real content, which usually means the page renders client-side.
func NeedsBrowser(extracted string) bool {
	return len(strings.TrimSpace(extracted)) < MinContentLength
}

// Render loads url in headless Chrome and returns the rendered HTML.
// Chrome or Chromium must be installed.
func Render(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if err := ValidateURL(url); err != nil {
		return "", err
	}
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	log.Printf("[fetch] rendered %s in browser (%d bytes)", url, len(html))
	return html, nil
}
