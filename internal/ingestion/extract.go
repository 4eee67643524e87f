package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/fetch"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Content types accepted by ExtractRawText
const (
	ContentTypePDF      = "application/pdf"
	ContentTypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeHTML     = "text/html"
	ContentTypePlain    = "text/plain"
	ContentTypeMarkdown = "text/markdown"
)

var extensionTypes = map[string]string{
	".pdf":      ContentTypePDF,
	".docx":     ContentTypeDOCX,
	".html":     ContentTypeHTML,
	".htm":      ContentTypeHTML,
	".txt":      ContentTypePlain,
	".text":     ContentTypePlain,
	".md":       ContentTypeMarkdown,
	".markdown": ContentTypeMarkdown,
}

// DetectContentType resolves the document type from the declared content type,
// then the file extension, then the leading bytes.
func DetectContentType(filename, declared string, data []byte) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			if isSupported(mediaType) {
				return mediaType
			}
		}
	}
	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return sniffed
}

func isSupported(contentType string) bool {
	switch contentType {
	case ContentTypePDF, ContentTypeDOCX, ContentTypeHTML, ContentTypePlain, ContentTypeMarkdown:
		return true
	}
	return false
}

// ExtractRawText decodes a résumé document into raw text. It fails with
// *ExtractionError when the format is unsupported or decoding fails.
func ExtractRawText(filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Filename: filename, Reason: "document is empty"}
	}

	switch ct := DetectContentType(filename, contentType, data); ct {
	case ContentTypePDF:
		return extractPDFText(filename, data)
	case ContentTypeDOCX:
		return extractDocxText(filename, data)
	case ContentTypeHTML:
		text, err := fetch.ExtractMainText(string(data), fetch.ResumePageSelectors())
		if err != nil {
			return "", &ExtractionError{Filename: filename, Reason: "failed to parse HTML", Cause: err}
		}
		return text, nil
	case ContentTypePlain, ContentTypeMarkdown:
		if !utf8.Valid(data) {
			return "", &ExtractionError{Filename: filename, Reason: "text is not valid UTF-8"}
		}
		return string(data), nil
	default:
		return "", &ExtractionError{
			Filename: filename,
			Reason:   fmt.Sprintf("content type %q", ct),
			Cause:    ErrUnsupportedFormat,
		}
	}
}

// extractPDFText reads the PDF row by row so each visual line stays a line
func extractPDFText(filename string, data []byte) (text string, err error) {
	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &ExtractionError{Filename: filename, Reason: "malformed PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Filename: filename, Reason: "failed to read PDF", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			plain, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				return "", &ExtractionError{Filename: filename, Reason: fmt.Sprintf("failed to read page %d", i), Cause: plainErr}
			}
			sb.WriteString(plain)
			sb.WriteString("\n")
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				sb.WriteString(word.S)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	docxTab          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// extractDocxText flattens document.xml into text, one paragraph per line
func extractDocxText(filename string, data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Filename: filename, Reason: "failed to read DOCX", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}
