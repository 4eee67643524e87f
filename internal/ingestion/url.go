package ingestion

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/jonathan/resume-parser/internal/fetch"
)

// IngestFromURL fetches a hosted résumé and returns its raw text with metadata.
// HTML pages are reduced to text with platform-specific selectors; documents
// served directly (PDF, DOCX, plain text) go through ExtractRawText.
// If useBrowser is true, pages whose text is too short are re-rendered in a
// headless browser, since many résumé sites build their content client-side.
// If verbose is true, logs detailed information about the extraction process.
func IngestFromURL(ctx context.Context, urlStr string, useBrowser bool, verbose bool) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched %d bytes (%s) from %s", len(result.Body), result.ContentType, result.URL)
	}

	body := result.Body
	filename := filenameFromURL(result.URL)
	contentType := DetectContentType(filename, result.ContentType, body)

	if contentType != ContentTypeHTML {
		text, err := ExtractRawText(filename, contentType, body)
		if err != nil {
			return "", nil, err
		}
		metadata := NewMetadata(filename, contentType, body)
		metadata.URL = urlStr
		metadata.Platform = string(platform)
		return text, metadata, nil
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)
	if verbose {
		log.Printf("[VERBOSE] Content selectors: %v", contentSelectors)
		log.Printf("[VERBOSE] Noise selectors count: %d", len(noiseSelectors))
	}

	text, err := fetch.ExtractMainText(result.HTML(), contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(text))
	}

	if useBrowser && fetch.ShouldUseBrowser(text) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
				len(text), fetch.MinContentLength)
		}

		rendered, browserErr := fetch.Render(ctx, urlStr, fetch.BrowserOptions{Verbose: verbose})
		if browserErr != nil {
			// Keep the HTTP content if the browser fails
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
		} else if renderedText, err := fetch.ExtractMainText(rendered, contentSelectors, noiseSelectors...); err == nil {
			text = renderedText
			body = []byte(rendered)
			if verbose {
				log.Printf("[VERBOSE] Browser extracted text: %d chars", len(text))
			}
		} else if verbose {
			log.Printf("[VERBOSE] Browser content extraction failed: %v", err)
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", nil, fmt.Errorf("%w: no text found at %s", ErrContentExtractionFailed, urlStr)
	}

	metadata := NewMetadata(filename, ContentTypeHTML, body)
	metadata.URL = urlStr
	metadata.Platform = string(platform)
	return text, metadata, nil
}

// filenameFromURL returns the last path segment, or "index.html" for bare hosts
func filenameFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "index.html"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "index.html"
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name
}
