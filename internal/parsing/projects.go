package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/types"
)

var (
	projectPrefixPattern = regexp.MustCompile(`(?i)^(?:project(?:\s+(?:name|title))?|title)\s*[:\-–]\s*(.+)$`)
	projectTitlePattern  = regexp.MustCompile(`^(\p{Lu}[\p{L}\d &+\-.]*?)\s*(?:\(([^)]*)\))?\s*(?:[|–—]\s*(.+))?$`)
	techLinePattern      = regexp.MustCompile(`(?i)^(?:tech(?:nology)?\s*stack|technologies(?:\s+used)?|tools(?:\s+used)?|built\s+(?:with|using)|stack)\s*[:\-–]\s*(.+)$`)
	hintSplitPattern     = regexp.MustCompile(`\s*(?:,|/|\||;|•)\s*`)
)

const maxProjectTitleLen = 30

// ProjectReconstructor rebuilds project entries
var ProjectReconstructor Reconstructor[types.ProjectEntry] = ReconstructorFunc[types.ProjectEntry](ReconstructProjects)

// ReconstructProjects walks the PROJECTS lines. A short capitalized title or a
// "Project:" line opens an entry; other lines extend the description and feed
// the tech stack through the skill scan.
func ReconstructProjects(lines []string) []types.ProjectEntry {
	return foldLines(lines, projectStep, func(p types.ProjectEntry) bool {
		return identifies(p.Title)
	})
}

func projectStep(s foldState[types.ProjectEntry], lines []string, i int) foldState[types.ProjectEntry] {
	line := lines[i]

	if title, hints, ok := parseProjectHeader(line); ok {
		return s.begin(types.ProjectEntry{
			Title:     title,
			TechStack: NormalizeSkills(hints),
		})
	}
	if s.open == nil {
		return s
	}

	project := s.open
	if m := techLinePattern.FindStringSubmatch(line); m != nil {
		project.TechStack = NormalizeSkills(append(project.TechStack, splitHints(m[1])...))
		return s
	}

	project.Description = appendSentence(project.Description, line)
	project.TechStack = NormalizeSkills(append(project.TechStack, ExtractSkillsFromText(line)...))
	return s
}

// parseProjectHeader returns the title and any tech hints of a header line
func parseProjectHeader(line string) (title string, hints []string, ok bool) {
	if m := projectPrefixPattern.FindStringSubmatch(line); m != nil {
		title, hints = splitTitleHints(m[1])
		return title, hints, title != ""
	}

	if strings.HasSuffix(line, ".") || StartsWithActionVerb(line) || techLinePattern.MatchString(line) {
		return "", nil, false
	}
	if dateRangePattern.MatchString(line) || monthYearPattern.MatchString(line) {
		return "", nil, false
	}
	m := projectTitlePattern.FindStringSubmatch(line)
	if m == nil {
		return "", nil, false
	}
	title = strings.TrimSpace(m[1])
	if utf8.RuneCountInString(title) > maxProjectTitleLen || isSkillList(title) {
		return "", nil, false
	}
	hints = append(splitHints(m[2]), splitHints(m[3])...)
	return title, hints, true
}

// splitTitleHints separates "Title (Go, Redis)" or "Title | Go, Redis" into its parts
func splitTitleHints(text string) (string, []string) {
	text = strings.TrimSpace(text)
	var hints []string
	if open := strings.Index(text, "("); open > 0 {
		if end := strings.Index(text[open:], ")"); end > 0 {
			hints = splitHints(text[open+1 : open+end])
			text = text[:open] + text[open+end+1:]
		}
	}
	if bar := strings.IndexAny(text, "|–—"); bar > 0 {
		hints = append(hints, splitHints(text[bar:])...)
		text = text[:bar]
	}
	return trimEdges(text), hints
}

func splitHints(text string) []string {
	text = strings.Trim(strings.TrimSpace(text), "|–—")
	if text == "" {
		return nil
	}
	var hints []string
	for _, part := range hintSplitPattern.Split(text, -1) {
		if part = trimEdges(part); part != "" {
			hints = append(hints, part)
		}
	}
	return hints
}

// isSkillList reports whether every word of text is a known skill, like "Python Django"
func isSkillList(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		if !IsKnownSkill(word) {
			return false
		}
	}
	return true
}
