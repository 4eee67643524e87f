package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/types"
)

// Defaults for certification fields that could not be recovered
const (
	UnknownIssuer = "Not Specified"
	UnknownDate   = "No Date"
)

const (
	minCertificationLen = 3
	// a line with more comma segments than this and no parenthesis is a list of names
	maxSingleCertSegments = 2
)

var (
	parentheticalPattern = regexp.MustCompile(`\(([^)]*)\)`)
	certDashPattern      = regexp.MustCompile(`\s[-–—]\s|\s[–—]|[–—]\s`)
)

// CertificationReconstructor rebuilds certification entries
var CertificationReconstructor Reconstructor[types.CertificationEntry] = ReconstructorFunc[types.CertificationEntry](ReconstructCertifications)

// ReconstructCertifications treats every qualifying line as a certification.
// A line with more than two comma-separated segments and no parenthesis is
// split into one entry per segment. This misreads a single name that itself
// holds two commas.
func ReconstructCertifications(lines []string) []types.CertificationEntry {
	out := []types.CertificationEntry{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < minCertificationLen || len(MatchHeader(line)) > 0 {
			continue
		}

		segments := strings.Split(line, ",")
		if len(segments) > maxSingleCertSegments && !strings.Contains(line, "(") {
			for _, segment := range segments {
				if name := trimEdges(segment); name != "" {
					out = append(out, types.CertificationEntry{Name: name, Issuer: UnknownIssuer, Date: UnknownDate})
				}
			}
			continue
		}

		if entry, ok := parseCertificationLine(line); ok {
			out = append(out, entry)
		}
	}
	return out
}

// parseCertificationLine builds one entry: a month-year or year becomes the
// date, a parenthetical or the text after a dash or colon becomes the issuer.
func parseCertificationLine(line string) (types.CertificationEntry, bool) {
	entry := types.CertificationEntry{Issuer: UnknownIssuer, Date: UnknownDate}

	text := line
	if loc := monthYearPattern.FindStringIndex(text); loc != nil {
		entry.Date = strings.TrimSpace(text[loc[0]:loc[1]])
		text = text[:loc[0]] + text[loc[1]:]
	} else if loc := yearPattern.FindStringIndex(text); loc != nil {
		entry.Date = text[loc[0]:loc[1]]
		text = text[:loc[0]] + text[loc[1]:]
	}
	text = strings.ReplaceAll(text, "()", "")

	issuer := ""
	if m := parentheticalPattern.FindStringSubmatchIndex(text); m != nil {
		issuer = trimEdges(text[m[2]:m[3]])
		text = text[:m[0]] + text[m[1]:]
	} else if loc := certDashPattern.FindStringIndex(text); loc != nil {
		issuer = trimEdges(text[loc[1]:])
		text = text[:loc[0]]
	} else if idx := strings.Index(text, ":"); idx > 0 {
		issuer = trimEdges(text[idx+1:])
		text = text[:idx]
	}
	if issuer != "" {
		entry.Issuer = issuer
	}

	entry.Name = tidyCommas(trimEdges(text))
	if entry.Name == "" {
		return entry, false
	}
	return entry, true
}

var spaceBeforeCommaPattern = regexp.MustCompile(`\s+,`)

func tidyCommas(text string) string {
	return spaceBeforeCommaPattern.ReplaceAllString(text, ",")
}
