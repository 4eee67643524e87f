package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cv", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom", r.Header.Get("X-Test"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Jane Doe</h1></body></html>"))
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/cv", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/huge", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, MaxBodyBytes+1))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"X-Test": "custom"}

	t.Run("success", func(t *testing.T) {
		result, err := URL(context.Background(), server.URL+"/cv", opts)
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/cv", result.URL)
		assert.Contains(t, result.HTML(), "<h1>Jane Doe</h1>")
		assert.Equal(t, "text/html", result.ContentType)
		assert.Equal(t, http.StatusOK, result.StatusCode)
	})

	t.Run("follows redirects", func(t *testing.T) {
		result, err := URL(context.Background(), server.URL+"/old", opts)
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/cv", result.URL)
	})

	t.Run("redirect loop", func(t *testing.T) {
		_, err := URL(context.Background(), server.URL+"/loop", opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redirects")
	})

	t.Run("HTTP error keeps result", func(t *testing.T) {
		result, err := URL(context.Background(), server.URL+"/missing", opts)
		require.Error(t, err)
		require.NotNil(t, result)
		assert.Equal(t, http.StatusNotFound, result.StatusCode)

		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, server.URL+"/missing", fetchErr.URL)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("body too large", func(t *testing.T) {
		_, err := URL(context.Background(), server.URL+"/huge", opts)
		assert.ErrorIs(t, err, ErrBodyTooLarge)
	})
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/cv.pdf", "file:///etc/passwd", "https://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := URL(context.Background(), raw, nil)
			var fetchErr *Error
			require.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestExtractMainText_WithMainElement(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Main Content</h1>
				<p>This is the important text.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, ResumePageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Main Content")
	assert.Contains(t, text, "important text")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_WithArticleElement(t *testing.T) {
	html := `
	<html>
		<body>
			<article>
				<h1>Article Title</h1>
				<p>Article body.</p>
			</article>
		</body>
	</html>`

	text, err := ExtractMainText(html, ResumePageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Article Title")
	assert.Contains(t, text, "Article body")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `
	<html>
		<body>
			<div>Some content here.</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, ResumePageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}

func TestExtractMainText_ResumeSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Sidebar junk</div>
			<div id="resume">
				<header><h1>Jane Doe</h1><p>jane@example.com</p></header>
				<h2>Skills</h2>
				<ul><li>Go</li><li>Python</li></ul>
			</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, ResumePageSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\njane@example.com\nSkills\nGo\nPython", text)
	assert.NotContains(t, text, "Sidebar junk")
}

func TestExtractMainText_InlineElementsStayOnLine(t *testing.T) {
	html := `<html><body><main><p>Built with <b>Go</b> and <i>Redis</i>.<br>Second line</p></main></body></html>`

	text, err := ExtractMainText(html, ResumePageSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Built with Go and Redis.\nSecond line", text)
}

func TestResumePageSelectors(t *testing.T) {
	selectors := ResumePageSelectors()
	assert.Contains(t, selectors, "#resume")
	assert.Contains(t, selectors, "main")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   short  "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
