// Package storage keeps original résumé uploads in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrObjectNotFound is returned by Get when the key does not exist
var ErrObjectNotFound = errors.New("object not found")

// Store persists raw documents by key
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// KeyPrefix is the top-level folder for résumé uploads
const KeyPrefix = "resumes"

// anonymousOwner replaces an empty user id in object keys
const anonymousOwner = "anonymous"

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// ObjectKey builds resumes/<user>/<hash><ext>. The key is content-addressed,
// so uploading the same document twice reuses one object.
func ObjectKey(userID, hash, filename string) string {
	owner := strings.TrimSpace(userID)
	if owner == "" {
		owner = anonymousOwner
	}
	ext := unsafeKeyChars.ReplaceAllString(strings.ToLower(filepath.Ext(filename)), "")
	return fmt.Sprintf("%s/%s/%s%s", KeyPrefix, owner, hash, ext)
}
