package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hostedResume = `<!DOCTYPE html>
<html>
<body>
<nav>Home | Projects | Contact</nav>
<main>
<h1>Jane Doe</h1>
<p>jane.doe@example.com | +1 415 555 0100</p>
<h2>Experience</h2>
<p>Senior Software Engineer at Acme Corp</p>
<p>Built streaming pipelines in Go and Kafka.</p>
<h2>Skills</h2>
<ul><li>Go</li><li>Kafka</li><li>PostgreSQL</li></ul>
</main>
<footer>Built with a static site generator</footer>
</body>
</html>`

func TestIngestFromURL_InvalidURL(t *testing.T) {
	tests := []struct {
		name   string
		urlStr string
	}{
		{"empty URL", ""},
		{"malformed URL", "not-a-url"},
		{"no scheme", "example.com"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := IngestFromURL(context.Background(), tt.urlStr, false, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrHTTPRequestFailed))
		})
	}
}

func TestIngestFromURL_HTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(hostedResume))
	}))
	defer server.Close()

	text, metadata, err := IngestFromURL(context.Background(), server.URL, false, false)
	require.NoError(t, err)

	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Experience\nSenior Software Engineer at Acme Corp")
	assert.Contains(t, text, "Go\nKafka\nPostgreSQL")
	assert.NotContains(t, text, "Home | Projects")
	assert.NotContains(t, text, "static site generator")

	require.NotNil(t, metadata)
	assert.Equal(t, server.URL, metadata.URL)
	assert.Equal(t, ContentTypeHTML, metadata.ContentType)
	assert.Equal(t, "unknown", metadata.Platform)
	assert.Equal(t, "index.html", metadata.Filename)
	assert.Len(t, metadata.Hash, 64)
}

func TestIngestFromURL_PlainTextDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Jane Doe\nSKILLS\nGo, Docker"))
	}))
	defer server.Close()

	text, metadata, err := IngestFromURL(context.Background(), server.URL+"/files/jane_resume.txt", false, false)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSKILLS\nGo, Docker", text)
	assert.Equal(t, "jane_resume.txt", metadata.Filename)
	assert.Equal(t, ContentTypePlain, metadata.ContentType)
}

func TestIngestFromURL_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><nav>menu</nav><script>render()</script></body></html>"))
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, false, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContentExtractionFailed))
}

func TestIngestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, false, false)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "HTTP status 404"))
}

func TestIngestFromURL_NetworkError(t *testing.T) {
	_, _, err := IngestFromURL(context.Background(), "http://localhost:99999/nonexistent", false, false)
	assert.Error(t, err)
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		name   string
		urlStr string
		want   string
	}{
		{"bare host", "https://jane.dev", "index.html"},
		{"trailing slash", "https://jane.dev/", "index.html"},
		{"document path", "https://cdn.example.com/u/1/Jane%20Doe.pdf", "Jane Doe.pdf"},
		{"query ignored", "https://example.com/cv.docx?dl=1", "cv.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filenameFromURL(tt.urlStr))
		})
	}
}
