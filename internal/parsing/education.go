package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

var (
	institutionPattern = regexp.MustCompile(`(?i)\b(?:university|universit[àé]|college|institute|institution|school|academy|polytechnic|iit|nit|iiit|bits|vidyalaya|faculty)\b`)
	degreePattern      = regexp.MustCompile(`(?i)(?:\b(?:bachelor(?:'?s)?|master(?:'?s)?|doctorate|associate'?s|diploma|mba|bba|bca|mca|bsc|msc|btech|mtech|hsc|ssc|matriculation|intermediate)\b|` +
		`\bph\.?\s?d\b\.?|\b[bm]\.\s?tech\b\.?|\b[bm]\.(?:e|a|s|sc|com)\.|\b[bm]\.sc\b|\b[bm]\.com\b)(?:\s+degree)?`)
	degreeLeadPattern = regexp.MustCompile(`(?i)^(?:(?:of|in)\b\s*)+`)
	gradeTailPattern  = regexp.MustCompile(`(?i)[\s,;|(\-–—]*\b(?:c?gpa|percentage|grade|score|marks)\b.*$`)
)

// EducationReconstructor rebuilds education entries
var EducationReconstructor Reconstructor[types.EducationEntry] = ReconstructorFunc[types.EducationEntry](ReconstructEducation)

// ReconstructEducation walks the EDUCATION lines. Institution and degree lines
// open or complete an entry; any year on a line belonging to the entry sets Year.
func ReconstructEducation(lines []string) []types.EducationEntry {
	return foldLines(lines, educationStep, func(e types.EducationEntry) bool {
		return identifies(e.Institution) || identifies(e.Degree)
	})
}

func educationStep(s foldState[types.EducationEntry], lines []string, i int) foldState[types.EducationEntry] {
	line := lines[i]
	hasInstitution := institutionPattern.MatchString(line)
	degreeLoc := degreePattern.FindStringIndex(line)

	switch {
	case hasInstitution && degreeLoc != nil:
		s = s.begin(parseInstitutionAndDegree(line))
	case hasInstitution:
		institution := cleanEducationText(line)
		if s.open != nil && s.open.Institution == "" {
			s.open.Institution = institution
		} else {
			s = s.begin(types.EducationEntry{Institution: institution})
		}
	case degreeLoc != nil:
		degree, field := parseDegree(line, degreeLoc)
		if s.open != nil && s.open.Degree == "" {
			s.open.Degree, s.open.Field = degree, field
		} else {
			s = s.begin(types.EducationEntry{Degree: degree, Field: field})
		}
	}

	if s.open != nil {
		if year, ok := lastYear(line); ok {
			s.open.Year = &year
		}
	}
	return s
}

// parseInstitutionAndDegree splits a one-line record such as
// "B.Tech in Computer Science, XYZ Institute of Technology, 2020".
func parseInstitutionAndDegree(line string) types.EducationEntry {
	var entry types.EducationEntry
	for _, segment := range splitSegments(line) {
		if loc := degreePattern.FindStringIndex(segment); loc != nil && entry.Degree == "" {
			entry.Degree, entry.Field = parseDegree(segment, loc)
			continue
		}
		if institutionPattern.MatchString(segment) && entry.Institution == "" {
			entry.Institution = cleanEducationText(segment)
		}
	}
	if entry.Institution == "" && entry.Degree == "" {
		loc := degreePattern.FindStringIndex(line)
		entry.Degree, entry.Field = parseDegree(line, loc)
	}
	return entry
}

// parseDegree returns the matched degree token and the field text that follows it
func parseDegree(line string, loc []int) (degree, field string) {
	degree = strings.TrimSpace(line[loc[0]:loc[1]])
	degree = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(degree, "degree"), "Degree"))

	rest := line[loc[1]:]
	rest = degreeLeadPattern.ReplaceAllString(trimEdges(rest), "")
	field = cleanEducationText(rest)
	return degree, field
}

// cleanEducationText drops dates and grade tails and trims separators
func cleanEducationText(text string) string {
	text = gradeTailPattern.ReplaceAllString(text, "")
	_, text = splitDateRange(text)
	text = monthYearPattern.ReplaceAllString(text, "")
	text = yearPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "()", "")
	return trimEdges(text)
}
