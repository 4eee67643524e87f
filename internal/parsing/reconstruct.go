package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reconstructor turns the lines of one section into structured entities
type Reconstructor[T any] interface {
	Reconstruct(lines []string) []T
}

// ReconstructorFunc adapts a plain function to the Reconstructor interface
type ReconstructorFunc[T any] func(lines []string) []T

// Reconstruct calls f(lines)
func (f ReconstructorFunc[T]) Reconstruct(lines []string) []T {
	return f(lines)
}

// minIdentifierLen is the length an identifying field must exceed for an entity to be emitted
const minIdentifierLen = 2

// foldState is the explicit state threaded through a reconstructor walk:
// the entity currently open (nil when none), the entities already closed,
// and how many upcoming lines the last step consumed.
type foldState[T any] struct {
	open *T
	out  []T
	skip int
	keep func(T) bool
}

// begin closes the open entity, if any, and opens entity in its place
func (s foldState[T]) begin(entity T) foldState[T] {
	s = s.close()
	s.open = &entity
	return s
}

// close emits the open entity when it carries an identifying field
func (s foldState[T]) close() foldState[T] {
	if s.open != nil && s.keep(*s.open) {
		s.out = append(s.out, *s.open)
	}
	s.open = nil
	return s
}

// stepFunc classifies lines[i] and returns the next state
type stepFunc[T any] func(s foldState[T], lines []string, i int) foldState[T]

// foldLines walks lines once through step and returns the emitted entities, never nil
func foldLines[T any](lines []string, step stepFunc[T], keep func(T) bool) []T {
	s := foldState[T]{out: []T{}, keep: keep}
	for i := range lines {
		if s.skip > 0 {
			s.skip--
			continue
		}
		s = step(s, lines, i)
	}
	return s.close().out
}

// identifies reports whether a field is long enough to identify an entity
func identifies(field string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(field)) > minIdentifierLen
}

const monthExpr = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`

const datePointExpr = `(?:` + monthExpr + `\s*,?\s*'?\d{2,4}|\d{1,2}/\d{2,4}|(?:19|20)\d{2})`

var (
	dateRangePattern = regexp.MustCompile(`(?i)\b` + datePointExpr +
		`\s*(?:-|–|—|to|till|until)\s*(?:` + datePointExpr + `|present|current(?:ly)?|now|ongoing|today|date)\b`)
	monthYearPattern = regexp.MustCompile(`(?i)\b` + monthExpr + `\s*,?\s*(?:19|20)\d{2}\b`)
	yearPattern      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	edgePunctPattern = regexp.MustCompile(`^[\s,;:|\-–—()]+|[\s,;:|\-–—(]+$`)
	segmentPattern   = regexp.MustCompile(`\s*(?:,|\||\s[-–—]\s|\s@\s)\s*`)
)

// splitDateRange returns the first date range in line and the line with it removed
func splitDateRange(line string) (dateRange, rest string) {
	loc := dateRangePattern.FindStringIndex(line)
	if loc == nil {
		return "", line
	}
	dateRange = strings.TrimSpace(line[loc[0]:loc[1]])
	rest = trimEdges(line[:loc[0]] + " " + line[loc[1]:])
	return dateRange, rest
}

// lastYear returns the last 19xx/20xx token in line
func lastYear(line string) (int, bool) {
	matches := yearPattern.FindAllString(line, -1)
	if len(matches) == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// trimEdges strips separator punctuation from both ends and collapses inner space runs
func trimEdges(text string) string {
	text = spaceRunPattern.ReplaceAllString(strings.TrimSpace(text), " ")
	text = edgePunctPattern.ReplaceAllString(text, "")
	// unmatched trailing parenthesis left by a removed inner token
	if strings.HasSuffix(text, ")") && !strings.Contains(text, "(") {
		text = strings.TrimRight(text, ") ")
	}
	return strings.TrimSpace(text)
}

// splitSegments breaks a header line on commas, pipes, spaced dashes and " @ "
func splitSegments(line string) []string {
	parts := segmentPattern.Split(line, -1)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = trimEdges(part); part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

var actionVerbs = map[string]bool{
	"built": true, "led": true, "ran": true, "wrote": true, "made": true,
	"drove": true, "won": true, "taught": true, "grew": true, "cut": true,
	"oversaw": true, "responsible": true, "using": true,
	"creating": true, "developing": true, "designing": true, "implementing": true,
	"managing": true, "working": true, "collaborating": true, "leading": true,
	"building": true, "maintaining": true, "handling": true, "ensuring": true,
	"conducting": true, "assisting": true, "participated": true, "develop": true,
	"design": true, "implement": true, "manage": true, "create": true,
	"build": true, "work": true, "worked": true, "helped": true, "help": true,
	"utilized": true, "achieved": true, "spearheaded": true,
}

// StartsWithActionVerb reports whether the line opens like a bullet of accomplishments
func StartsWithActionVerb(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	word := strings.ToLower(strings.TrimRight(fields[0], ",.:;"))
	if actionVerbs[word] {
		return true
	}
	return len(word) > 4 && strings.HasSuffix(word, "ed")
}

// startsUpper reports whether the first rune of line is an uppercase letter
func startsUpper(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsUpper(r)
}

// appendSentence joins next onto text with a single space
func appendSentence(text, next string) string {
	if text == "" {
		return next
	}
	return text + " " + next
}
