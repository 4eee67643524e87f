package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/types"
)

var (
	titleKeywordPattern = regexp.MustCompile(`(?i)\b(?:developer|engineer|manager|analyst|intern|internship|lead|architect|consultant|designer|` +
		`administrator|specialist|scientist|officer|director|associate|executive|coordinator|assistant|trainee|programmer|tester|` +
		`technician|head|founder|co-founder|freelancer|researcher|fellow|supervisor|representative|sde|swe|cto|ceo|vp)s?\b`)
	roleAtCompanyPattern = regexp.MustCompile(`^(.+?)\s+(?:at|@)\s+(.+)$`)
)

const (
	minTitleLen       = 6
	maxTitleLen       = 99
	maxTitleWords     = 12
	maxFillLabelWords = 6
)

// ExperienceReconstructor rebuilds work history entries
var ExperienceReconstructor Reconstructor[types.ExperienceEntry] = ReconstructorFunc[types.ExperienceEntry](ReconstructExperience)

// ReconstructExperience walks the EXPERIENCE lines. A title-like line opens an
// entry; a date range on the following line becomes its duration; other lines
// extend the description.
func ReconstructExperience(lines []string) []types.ExperienceEntry {
	return foldLines(lines, experienceStep, func(e types.ExperienceEntry) bool {
		return identifies(e.Company) || identifies(e.Role)
	})
}

func experienceStep(s foldState[types.ExperienceEntry], lines []string, i int) foldState[types.ExperienceEntry] {
	line := lines[i]

	if isExperienceHeader(line) {
		entry := parseExperienceHeader(line)
		if canMergeHeader(s.open, entry) {
			// the open entry was started by a date or company line; the title completes it
			s.open.Company = firstNonEmpty(s.open.Company, entry.Company)
			s.open.Role = firstNonEmpty(s.open.Role, entry.Role)
			s.open.Duration = firstNonEmpty(s.open.Duration, entry.Duration)
		} else {
			s = s.begin(entry)
		}

		if s.open.Duration == "" && i+1 < len(lines) {
			if dateRange, rest := splitDateRange(lines[i+1]); dateRange != "" && !titleKeywordPattern.MatchString(rest) {
				s.open.Duration = dateRange
				if rest != "" && s.open.Company == "" {
					s.open.Company = rest
				}
				s.skip = 1
			}
		}
		return s
	}

	if s.open == nil {
		if dateRange, rest := splitDateRange(line); dateRange != "" {
			company, role := splitCompanyRole(rest)
			s = s.begin(types.ExperienceEntry{Company: company, Role: role, Duration: dateRange})
		}
		return s
	}

	entry := s.open
	if entry.Description == "" {
		if entry.Duration == "" {
			if dateRange, rest := splitDateRange(line); dateRange != "" && utf8.RuneCountInString(rest) < maxTitleLen/2 {
				entry.Duration = dateRange
				fillCompanyRole(entry, rest)
				return s
			}
		}
		if (entry.Company == "" || entry.Role == "") && isFillLabel(line) {
			fillCompanyRole(entry, line)
			return s
		}
	}

	entry.Description = appendSentence(entry.Description, line)
	return s
}

// canMergeHeader reports whether header only fills fields the open entry is still missing
func canMergeHeader(open *types.ExperienceEntry, header types.ExperienceEntry) bool {
	if open == nil || open.Description != "" {
		return false
	}
	return (open.Company == "" || header.Company == "") &&
		(open.Role == "" || header.Role == "") &&
		(open.Duration == "" || header.Duration == "")
}

// isExperienceHeader reports whether line looks like "Role, Company" or carries a job title
func isExperienceHeader(line string) bool {
	n := utf8.RuneCountInString(line)
	if n < minTitleLen || n > maxTitleLen {
		return false
	}
	if !startsUpper(line) || strings.HasSuffix(line, ".") || StartsWithActionVerb(line) {
		return false
	}
	if len(strings.Fields(line)) > maxTitleWords {
		return false
	}

	if titleKeywordPattern.MatchString(line) {
		return true
	}
	return isCapitalizedSegments(line)
}

// isCapitalizedSegments matches "Acme Corp, Platform Team" style lines: two or
// more capitalized segments that are not just a list of skills.
func isCapitalizedSegments(line string) bool {
	_, rest := splitDateRange(line)
	segments := splitSegments(rest)
	if len(segments) < 2 {
		return false
	}
	skills := 0
	for _, segment := range segments {
		if !startsUpper(segment) {
			return false
		}
		if IsKnownSkill(segment) {
			skills++
		}
	}
	return skills*2 < len(segments)
}

func parseExperienceHeader(line string) types.ExperienceEntry {
	dateRange, rest := splitDateRange(line)
	company, role := splitCompanyRole(rest)
	return types.ExperienceEntry{Company: company, Role: role, Duration: dateRange}
}

// splitCompanyRole decides which part of a header names the role. The segment
// holding a job-title keyword is the role; otherwise the order is company, role.
func splitCompanyRole(text string) (company, role string) {
	text = trimEdges(text)
	if text == "" {
		return "", ""
	}
	if m := roleAtCompanyPattern.FindStringSubmatch(text); m != nil && titleKeywordPattern.MatchString(m[1]) {
		return trimEdges(m[2]), trimEdges(m[1])
	}

	segments := splitSegments(text)
	switch len(segments) {
	case 0:
		return "", ""
	case 1:
		if titleKeywordPattern.MatchString(segments[0]) {
			return "", segments[0]
		}
		return segments[0], ""
	}

	roleIdx := -1
	for i, segment := range segments {
		if titleKeywordPattern.MatchString(segment) {
			roleIdx = i
			break
		}
	}
	if roleIdx < 0 {
		return segments[0], segments[1]
	}
	role = segments[roleIdx]
	for i, segment := range segments {
		if i != roleIdx {
			return segment, role
		}
	}
	return "", role
}

// fillCompanyRole places text into whichever of company or role is still empty
func fillCompanyRole(entry *types.ExperienceEntry, text string) {
	company, role := splitCompanyRole(text)
	if entry.Company == "" && entry.Role == "" {
		entry.Company, entry.Role = company, role
		return
	}
	if entry.Company == "" {
		entry.Company = firstNonEmpty(company, role)
	}
	if entry.Role == "" {
		entry.Role = firstNonEmpty(role, company)
	}
}

// isFillLabel reports whether a line is a short label like a company name rather than prose
func isFillLabel(line string) bool {
	return startsUpper(line) &&
		!strings.HasSuffix(line, ".") &&
		!StartsWithActionVerb(line) &&
		len(strings.Fields(line)) <= maxFillLabelWords
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
