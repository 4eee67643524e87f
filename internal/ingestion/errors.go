package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is matched by ExtractionError when no decoder handles the document
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrHTTPRequestFailed is returned when fetching a hosted résumé fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when a fetched page yields no usable text
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// ExtractionError is returned when a document cannot be turned into raw text
type ExtractionError struct {
	Filename string
	Reason   string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error for %s: %s: %v", e.Filename, e.Reason, e.Cause)
	}
	return fmt.Sprintf("extraction error for %s: %s", e.Filename, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
