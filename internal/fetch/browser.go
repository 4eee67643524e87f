// Package fetch - browser.go renders JavaScript-built résumé pages in headless Chrome.
package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP fetch.
// Shorter text usually means the page renders its content client-side.
const MinContentLength = 300

// DefaultRenderWait is how long a rendered page is given to settle.
const DefaultRenderWait = 2 * time.Second

// ShouldUseBrowser returns true if the extracted text is too short to be a résumé.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// BrowserOptions configures headless rendering.
type BrowserOptions struct {
	Timeout time.Duration
	// Wait is the pause after the body is ready, for client-side rendering
	Wait time.Duration
	// WaitSelector, when set, must become visible before the HTML is captured
	WaitSelector string
	Verbose      bool
}

// Render loads url in headless Chrome and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func Render(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Wait <= 0 {
		opts.Wait = DefaultRenderWait
	}
	if opts.Verbose {
		log.Printf("[BROWSER] Rendering %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if opts.WaitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(opts.WaitSelector))
	}

	var html string
	actions = append(actions,
		chromedp.Sleep(opts.Wait),
		chromedp.OuterHTML("html", &html),
	)

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}
	if html == "" {
		return "", &Error{URL: url, Message: fmt.Sprintf("browser returned no HTML after %s", opts.Wait)}
	}

	return html, nil
}
