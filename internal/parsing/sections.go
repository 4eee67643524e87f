package parsing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// SectionIndexMap records the line index of the first header for each label
type SectionIndexMap map[types.SectionLabel]int

// maxHeaderLen bounds header lines so prose starting with a section word is not a header
const maxHeaderLen = 60

// sectionPatterns match one header "part" (see headerParts) in full.
// Matching is done on lowercased, whitespace-collapsed text.
var sectionPatterns = map[types.SectionLabel]*regexp.Regexp{
	types.SectionSkills: regexp.MustCompile(
		`^(?:(?:technical|key|core|professional|soft|hard|relevant|it|computer|programming|software|personal|other)\s+)?` +
			`(?:skil+s?|skill[\s\-]?sets?|competenc(?:e|y|ies)|expertise|proficienc(?:y|ies)|technolog(?:y|ies)|tech[\s\-]?stack|tools|programming\s+languages)$`),
	types.SectionExperience: regexp.MustCompile(
		`^(?:(?:work|professional|employment|relevant|industry|internship|career|job|research|working)[\s\-]*)?(?:experi[ae]n[cs]es?|experince|exp\.?)$` +
			`|^(?:work|employment|career|professional|job)[\s\-]*history$|^internships?$|^employment$`),
	types.SectionEducation: regexp.MustCompile(
		`^(?:edu[\s\-]?cation(?:al)?|academics?|scholastic)(?:\s+(?:background|qualifications?|details|history|profile|credentials))?$` +
			`|^qualifications?$`),
	types.SectionProjects: regexp.MustCompile(
		`^(?:(?:academic|personal|key|major|minor|selected|notable|side|technical|relevant|college|university|software|professional)\s+)?` +
			`pro[\s\-]?jec?ts?(?:\s+(?:work|details|undertaken|experience|handled))?$`),
	types.SectionCertifications: regexp.MustCompile(
		`^(?:(?:professional|technical|relevant|online)\s+)?(?:certifi?cations?|certificates?|certs|licen[cs]es?|courses?(?:\s+completed)?|trainings?|coursework)$`),
	types.SectionSummary: regexp.MustCompile(
		`^(?:(?:professional|career|executive|personal)\s+)?(?:summary|profile|objective|about(?:\s+me)?|overview)$|^career\s+objective$`),
	types.SectionDeclaration: regexp.MustCompile(`^declarations?$`),
	types.SectionReferences: regexp.MustCompile(`^references?(?:\s+available(?:\s+(?:up)?on\s+request)?)?$|^referees?$`),
	types.SectionLanguages: regexp.MustCompile(
		`^(?:(?:spoken|known|foreign)\s+)?languages?(?:\s+(?:known|spoken))?$|^linguistic\s+proficiency$`),
	types.SectionInterests: regexp.MustCompile(
		`^(?:interests?|hobbies|extra[\s\-]?curricular(?:\s+activities)?|activities)$`),
}

var (
	headerLeadPattern     = regexp.MustCompile(`^[^\p{L}]+`)
	headerTrailPattern    = regexp.MustCompile(`[\s:\-–—.|]+$`)
	headerSpacePattern    = regexp.MustCompile(`\s+`)
	headerConjunctPattern = regexp.MustCompile(`\s*(?:&|\band\b|/|,|\+)\s*`)
	spacedLettersPattern  = regexp.MustCompile(`^(?:\p{L} )+\p{L}$`)
)

// headerParts prepares a line for header matching and splits it on
// conjunctions, so "Education & Certifications" yields two parts.
// It returns nil when the line cannot be a header at all.
func headerParts(line string) []string {
	if len(line) > maxHeaderLen {
		return nil
	}

	text := strings.ToLower(line)
	text = headerLeadPattern.ReplaceAllString(text, "")
	text = headerTrailPattern.ReplaceAllString(text, "")
	text = headerSpacePattern.ReplaceAllString(strings.TrimSpace(text), " ")
	if text == "" || strings.Contains(text, ":") {
		return nil
	}

	// "E X P E R I E N C E" style headers
	if spacedLettersPattern.MatchString(text) {
		text = strings.ReplaceAll(text, " ", "")
	}

	parts := headerConjunctPattern.Split(text, -1)
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return cleaned
}

// MatchHeader returns every section label the line is a header for.
// The first part of the line must match some label; later parts only add labels.
func MatchHeader(line string) []types.SectionLabel {
	parts := headerParts(line)
	if len(parts) == 0 {
		return nil
	}

	var labels []types.SectionLabel
	leadMatched := false
	for _, label := range types.AllSections() {
		pattern := sectionPatterns[label]
		for i, part := range parts {
			if pattern.MatchString(part) {
				if i == 0 {
					leadMatched = true
				}
				labels = append(labels, label)
				break
			}
		}
	}

	if !leadMatched {
		return nil
	}
	return labels
}

// LocateSections assigns each section label the index of its first header line.
// Later header lines for an already recorded label are ignored.
func LocateSections(lines LineStream) SectionIndexMap {
	index := make(SectionIndexMap)
	for i, line := range lines {
		for _, label := range MatchHeader(line) {
			if _, recorded := index[label]; !recorded {
				index[label] = i
			}
		}
	}
	return index
}

// Ordered returns the recorded labels in document order
func (m SectionIndexMap) Ordered() []types.SectionLabel {
	labels := make([]types.SectionLabel, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}

	rank := make(map[types.SectionLabel]int)
	for i, label := range types.AllSections() {
		rank[label] = i
	}
	sort.Slice(labels, func(i, j int) bool {
		if m[labels[i]] != m[labels[j]] {
			return m[labels[i]] < m[labels[j]]
		}
		return rank[labels[i]] < rank[labels[j]]
	})
	return labels
}

// SliceSection returns the lines owned by label: everything after its header
// up to the next header of any other section, or the end of the stream.
func SliceSection(lines LineStream, index SectionIndexMap, label types.SectionLabel) []string {
	start, ok := index[label]
	if !ok {
		return []string{}
	}

	end := len(lines)
	for other, at := range index {
		if other == label {
			continue
		}
		if at > start && at < end {
			end = at
		}
	}

	if start+1 >= end {
		return []string{}
	}
	content := make([]string, end-start-1)
	copy(content, lines[start+1:end])
	return content
}
