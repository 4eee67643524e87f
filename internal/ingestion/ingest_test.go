package ingestion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jane.txt")
	content := "Jane Doe\njane@example.com\nSKILLS\nPython, Docker"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	text, metadata, err := IngestFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, text)
	assert.Equal(t, "jane.txt", metadata.Filename)
	assert.Equal(t, ContentTypePlain, metadata.ContentType)
	assert.Equal(t, int64(len(content)), metadata.SizeBytes)
	assert.Equal(t, computeHash([]byte(content)), metadata.Hash)
}

func TestIngestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := IngestFromFile(filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, _, err = IngestFromFile(empty)
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "empty.txt", extractionErr.Filename)
}

func TestIngestBytes_DeclaredType(t *testing.T) {
	text, metadata, err := IngestBytes("upload", "text/html; charset=utf-8", []byte("<main><p>Jane Doe</p></main>"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", text)
	assert.Equal(t, ContentTypeHTML, metadata.ContentType)
}

func TestWriteOutput(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "out")
	resume := types.NewParsedResume("")
	resume.Email = "jane@example.com"
	resume.Skills = []string{"Python", "Docker"}
	metadata := NewMetadata("jane.txt", ContentTypePlain, []byte("raw"))

	require.NoError(t, WriteOutput(outDir, resume, metadata))

	resumeBytes, err := os.ReadFile(filepath.Join(outDir, ResumeFileName))
	require.NoError(t, err)
	var decoded types.ParsedResume
	require.NoError(t, json.Unmarshal(resumeBytes, &decoded))
	assert.Equal(t, "jane@example.com", decoded.Email)
	assert.Equal(t, []string{"Python", "Docker"}, decoded.Skills)

	metaBytes, err := os.ReadFile(filepath.Join(outDir, MetadataFileName))
	require.NoError(t, err)
	var decodedMeta Metadata
	require.NoError(t, json.Unmarshal(metaBytes, &decodedMeta))
	assert.Equal(t, metadata.Hash, decodedMeta.Hash)
}

func TestWriteOutput_NoMetadata(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, WriteOutput(outDir, types.NewParsedResume(""), nil))

	_, err := os.Stat(filepath.Join(outDir, ResumeFileName))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, MetadataFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteOutput_NilResume(t *testing.T) {
	assert.Error(t, WriteOutput(t.TempDir(), nil, nil))
}
