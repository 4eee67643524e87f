package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes the source document of a parsed résumé
type Metadata struct {
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
	Hash        string `json:"hash"`      // SHA256 hex digest of the raw document
	Timestamp   string `json:"timestamp"` // RFC3339 format
	URL         string `json:"url,omitempty"`
	Platform    string `json:"platform,omitempty"` // Detected hosting platform for URL sources
	StorageKey  string `json:"storage_key,omitempty"`
}

// NewMetadata creates a new Metadata instance for data with the current timestamp
func NewMetadata(filename, contentType string, data []byte) *Metadata {
	return &Metadata{
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Hash:        computeHash(data),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// computeHash computes SHA256 hash of data and returns hex string
func computeHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
