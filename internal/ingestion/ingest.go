package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-parser/internal/types"
)

// Output file names written by WriteOutput
const (
	ResumeFileName   = "parsed_resume.json"
	MetadataFileName = "parsed_resume.meta.json"
)

// IngestFromFile reads a résumé document from disk and returns its raw text with metadata
func IngestFromFile(path string) (string, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return IngestBytes(filepath.Base(path), "", data)
}

// IngestBytes decodes an in-memory document such as an upload or a stored object.
// contentType may be empty, in which case it is detected from filename and data.
func IngestBytes(filename, contentType string, data []byte) (string, *Metadata, error) {
	ct := DetectContentType(filename, contentType, data)
	text, err := ExtractRawText(filename, ct, data)
	if err != nil {
		return "", nil, err
	}
	return text, NewMetadata(filename, ct, data), nil
}

// WriteOutput writes the parsed résumé and its metadata as JSON files in outDir.
// metadata may be nil, in which case only the résumé is written.
func WriteOutput(outDir string, resume *types.ParsedResume, metadata *Metadata) error {
	if resume == nil {
		return fmt.Errorf("resume cannot be nil")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	resumeBytes, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal parsed resume: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, ResumeFileName), resumeBytes, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ResumeFileName, err)
	}

	if metadata == nil {
		return nil
	}
	metaBytes, err := metadata.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, MetadataFileName), metaBytes, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", MetadataFileName, err)
	}
	return nil
}
