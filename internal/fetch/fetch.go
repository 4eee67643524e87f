// Package fetch retrieves hosted résumé pages and turns their HTML into
// line-structured text the parser can work with.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeParser/1.0)"

// MaxBodyBytes caps the size of a fetched document.
const MaxBodyBytes = 10 << 20

// MaxRedirects is the number of redirects followed before giving up.
const MaxRedirects = 5

// ErrBodyTooLarge is returned when a response exceeds MaxBodyBytes
var ErrBodyTooLarge = errors.New("response body too large")

// Result is a fetched document. URL is the final URL after redirects.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// HTML returns the body as a string
func (r *Result) HTML() string {
	return string(r.Body)
}

// Error wraps a failed fetch with the requested URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures URL.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns the options used when URL gets nil.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// URL downloads an http or https document. A non-200 response returns both
// the Result and an *Error.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	fail := func(message string, cause error) error {
		return &Error{URL: urlStr, Message: message, Cause: cause}
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Host == "" || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return nil, fail("invalid URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fail("failed to create request", err)
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,text/plain;q=0.9,*/*;q=0.5")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", MaxRedirects)
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fail("HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fail("failed to read response body", err)
	}
	if len(body) > MaxBodyBytes {
		return nil, fail(fmt.Sprintf("more than %d bytes", MaxBodyBytes), ErrBodyTooLarge)
	}

	result := &Result{
		URL:         resp.Request.URL.String(),
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, fail(fmt.Sprintf("HTTP status %d", resp.StatusCode), nil)
	}
	return result, nil
}

// ExtractMainText parses HTML and returns the main content as text with one
// line per block element, so headings and list items stay on their own lines.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// résumé pages often keep the name and contact line in <header>, so it stays
	doc.Find("nav, footer, script, style, noscript, iframe, svg, .ad, .advertisement, .cookie-banner, .popup").Remove()

	if len(noiseSelectors) > 0 {
		noiseSelector := strings.Join(noiseSelectors, ", ")
		if noiseSelector != "" {
			doc.Find(noiseSelector).Remove()
		}
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}

	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	var sb strings.Builder
	writeBlockText(&sb, mainContent)
	return cleanWhitespace(sb.String()), nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// blockElements start a new line in extracted text
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true,
	"li": true, "ul": true, "ol": true, "tr": true, "table": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"dt": true, "dd": true, "blockquote": true, "pre": true, "hr": true,
	"main": true, "aside": true,
}

// writeBlockText writes the text of sel, breaking lines around block elements
func writeBlockText(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		name := goquery.NodeName(node)
		switch {
		case name == "#text":
			sb.WriteString(whitespaceRun.ReplaceAllString(node.Text(), " "))
		case name == "#comment":
		case blockElements[name]:
			sb.WriteString("\n")
			writeBlockText(sb, node)
			sb.WriteString("\n")
		default:
			writeBlockText(sb, node)
		}
	})
}

// ResumePageSelectors returns selectors that commonly wrap a hosted résumé.
func ResumePageSelectors() []string {
	return []string{
		"#resume",
		".resume",
		"#cv",
		".cv",
		"[itemtype*='schema.org/Person']",
		".resume-content",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace trims each line, collapses inner spaces and drops empty lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
