package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// LineStream is an ordered sequence of non-empty, trimmed lines
type LineStream []string

// Text joins the stream back into newline-separated text
func (ls LineStream) Text() string {
	return strings.Join(ls, "\n")
}

var spaceRunPattern = regexp.MustCompile(` {2,}`)

// bulletGlyphs are rewritten to a single canonical bullet so that inline
// lists keep a delimiter while leading bullets can be stripped uniformly.
var bulletGlyphs = map[rune]bool{
	'•': true, '●': true, '▪': true, '◦': true, '■': true, '□': true,
	'➢': true, '►': true, '✓': true, '✔': true, '‣': true, '⁃': true,
	'∙': true, '·': true, '❖': true, '➤': true, '○': true, '◆': true,
	'\uf0b7': true, '\uf0a7': true, '\uf0d8': true,
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff', '\u00ad':
		return true
	}
	return false
}

// Normalize turns raw document text into a LineStream: line breaks unified,
// tabs and unicode spaces turned into single spaces, control characters and
// leading bullet markers removed, lines trimmed and empty lines dropped.
func Normalize(raw string) LineStream {
	if raw == "" {
		return LineStream{}
	}

	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	raw = strings.ReplaceAll(raw, "\f", "\n")

	rawLines := strings.Split(raw, "\n")
	lines := make(LineStream, 0, len(rawLines))
	for _, line := range rawLines {
		if cleaned := normalizeLine(line); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return lines
}

func normalizeLine(line string) string {
	var sb strings.Builder
	sb.Grow(len(line))
	for _, r := range line {
		switch {
		case r == '\t':
			sb.WriteRune(' ')
		case isZeroWidth(r):
			// dropped
		case unicode.IsControl(r):
			// dropped
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		case bulletGlyphs[r]:
			sb.WriteRune('•')
		case r == unicode.ReplacementChar:
			// dropped
		default:
			sb.WriteRune(r)
		}
	}

	cleaned := spaceRunPattern.ReplaceAllString(sb.String(), " ")
	return stripLeadingBullets(strings.TrimSpace(cleaned))
}

// stripLeadingBullets removes any run of bullet markers at the start of a line
func stripLeadingBullets(line string) string {
	for {
		trimmed := strings.TrimLeft(line, "•")
		for _, marker := range []string{"- ", "* ", "> ", "– ", "o "} {
			if strings.HasPrefix(trimmed, marker) {
				trimmed = trimmed[len(marker):]
				break
			}
		}
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == line {
			return line
		}
		line = trimmed
	}
}
