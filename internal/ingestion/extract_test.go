package ingestion

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx assembles the minimal zip layout the docx reader needs
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships></Relationships>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		data     []byte
		want     string
	}{
		{"declared wins", "resume.bin", "application/pdf", nil, ContentTypePDF},
		{"declared with params", "resume", "text/html; charset=utf-8", nil, ContentTypeHTML},
		{"unsupported declared falls back to extension", "resume.docx", "application/octet-stream", nil, ContentTypeDOCX},
		{"extension case-insensitive", "RESUME.PDF", "", nil, ContentTypePDF},
		{"markdown extension", "cv.md", "", nil, ContentTypeMarkdown},
		{"sniffed pdf", "upload", "", []byte("%PDF-1.4\n"), ContentTypePDF},
		{"sniffed text", "upload", "", []byte("Jane Doe\nSKILLS\nGo"), ContentTypePlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(tt.filename, tt.declared, tt.data))
		})
	}
}

func TestExtractRawText_PlainAndMarkdown(t *testing.T) {
	text, err := ExtractRawText("resume.txt", "", []byte("Jane Doe\nSKILLS\nPython, Docker"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSKILLS\nPython, Docker", text)

	text, err = ExtractRawText("resume.md", "", []byte("# Jane Doe\n## Skills"))
	require.NoError(t, err)
	assert.Contains(t, text, "## Skills")
}

func TestExtractRawText_HTML(t *testing.T) {
	page := `<html><body>
<nav>Home | Blog</nav>
<div id="resume">
<header><h1>Jane Doe</h1><p>jane@example.com</p></header>
<h2>Skills</h2>
<ul><li>Python</li><li>Kubernetes</li></ul>
</div>
<footer>Copyright</footer>
</body></html>`

	text, err := ExtractRawText("resume.html", "", []byte(page))
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe\njane@example.com\nSkills\nPython\nKubernetes")
	assert.NotContains(t, text, "Home | Blog")
	assert.NotContains(t, text, "Copyright")
}

func TestExtractRawText_Docx(t *testing.T) {
	body := `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:t>SKILLS &amp; TOOLS</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Python</w:t><w:tab/><w:t>Docker</w:t><w:br/><w:t>Git</w:t></w:r></w:p>`

	text, err := ExtractRawText("resume.docx", "", buildDocx(t, body))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSKILLS & TOOLS\nPython\tDocker\nGit\n", text)
}

func TestExtractRawText_Errors(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		unsupported bool
	}{
		{"empty document", "resume.txt", "", nil, false},
		{"unsupported type", "resume.png", "image/png", []byte("\x89PNG\r\n\x1a\n0000"), true},
		{"malformed pdf", "resume.pdf", "", []byte("not really a pdf"), false},
		{"malformed docx", "resume.docx", "", []byte("not a zip archive"), false},
		{"invalid utf-8", "resume.txt", "", []byte{0xff, 0xfe, 0xfd}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractRawText(tt.filename, tt.contentType, tt.data)
			require.Error(t, err)
			assert.Empty(t, text)

			var extractionErr *ExtractionError
			require.True(t, errors.As(err, &extractionErr))
			assert.Equal(t, tt.filename, extractionErr.Filename)
			assert.Equal(t, tt.unsupported, errors.Is(err, ErrUnsupportedFormat))
		})
	}
}

func TestExtractionError_Message(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := &ExtractionError{Filename: "cv.docx", Reason: "failed to read DOCX", Cause: cause}
	assert.Equal(t, "extraction error for cv.docx: failed to read DOCX: zip: not a valid zip file", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := &ExtractionError{Filename: "cv.txt", Reason: "document is empty"}
	assert.Equal(t, "extraction error for cv.txt: document is empty", plain.Error())
}
