package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minSkillLen = 2
	maxSkillLen = 59
)

var (
	skillLabelPattern = regexp.MustCompile(`^[^:]{1,40}:\s*`)
	skillSplitPattern = regexp.MustCompile(`[\n,;•·|→⇒*➤]|\s[-–—]\s`)
	toolLinePattern   = regexp.MustCompile(`(?i)^(?:developer\s+tools|tools|technologies|tech\s*stack|software|platforms|frameworks|libraries|databases|cloud|devops)[^:]{0,20}:\s*(.+)$`)
)

// skillEchoes are header words that leak into skill lists
var skillEchoes = map[string]bool{
	"skills": true, "skill": true, "technical skills": true, "key skills": true,
	"core skills": true, "soft skills": true, "tools": true, "technologies": true,
	"and": true, "etc": true, "others": true, "other": true,
}

// SkillsReconstructor splits the SKILLS lines into normalized skill names
var SkillsReconstructor Reconstructor[string] = ReconstructorFunc[string](ReconstructSkills)

// ReconstructSkills splits the whole range on list delimiters, drops tokens
// outside the length bounds and header echoes, and normalizes what remains.
func ReconstructSkills(lines []string) []string {
	return NormalizeSkills(splitSkillTokens(lines))
}

// splitSkillTokens breaks lines such as "Languages: Go, Python (Django)" into tokens
func splitSkillTokens(lines []string) []string {
	var tokens []string
	for _, line := range lines {
		line = skillLabelPattern.ReplaceAllString(line, "")
		line = strings.NewReplacer("(", ",", ")", ",").Replace(line)
		for _, token := range skillSplitPattern.Split(line, -1) {
			token = strings.TrimRight(strings.Trim(strings.TrimSpace(token), ":-–— "), ".")
			n := utf8.RuneCountInString(token)
			if n < minSkillLen || n > maxSkillLen {
				continue
			}
			if skillEchoes[strings.ToLower(token)] || len(MatchHeader(token)) > 0 {
				continue
			}
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// ExtractTools finds tool label lines anywhere in the document and merges
// their entries with a full-text skill scan.
func ExtractTools(lines LineStream) []string {
	var tools []string
	for _, line := range lines {
		if m := toolLinePattern.FindStringSubmatch(line); m != nil {
			tools = append(tools, splitSkillTokens([]string{m[1]})...)
		}
	}
	tools = append(tools, ExtractSkillsFromText(lines.Text())...)
	return NormalizeSkills(tools)
}

// ReconstructLanguages splits the LANGUAGES lines into spoken language names
func ReconstructLanguages(lines []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, token := range splitSkillTokens(lines) {
		key := strings.ToLower(token)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, token)
	}
	return out
}

// ReconstructSummary joins the SUMMARY lines into one paragraph
func ReconstructSummary(lines []string) string {
	return strings.Join(lines, " ")
}
