package experience

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/types"
)

// EvidenceStrength values
const (
	EvidenceStrengthHigh   = "high"
	EvidenceStrengthMedium = "medium"
	EvidenceStrengthLow    = "low"
)

var (
	durationSplitPattern = regexp.MustCompile(`(?i)\s*(?:-|–|—|\bto\b|\btill\b|\buntil\b)\s*`)
	sentenceEndPattern   = regexp.MustCompile(`[.!?]+\s+`)
	metricPattern        = regexp.MustCompile(`(?i)(?:[$€£₹]\s?\d[\d,.]*\s*(?:[kmb]\b|million|billion)?` +
		`|\d[\d,.]*\s*(?:%|\+|x\b|[km]\b)` +
		`|\d[\d,.]*\s+(?:users|customers|clients|requests|transactions|hours|ms|seconds|minutes|days|engineers|members|students|downloads)\b)`)
)

// BuildBank converts the experience entries of a parsed résumé into an
// experience bank: one story per entry, one bullet per description sentence.
// The result is already normalized.
func BuildBank(resume *types.ParsedResume) *types.ExperienceBank {
	bank := &types.ExperienceBank{Stories: []types.Story{}}
	if resume == nil {
		return bank
	}

	for i, entry := range resume.Experience {
		storyID := fmt.Sprintf("story_%03d", i+1)
		start, end := SplitDuration(entry.Duration)
		story := types.Story{
			ID:        storyID,
			Company:   entry.Company,
			Role:      entry.Role,
			StartDate: start,
			EndDate:   end,
			Bullets:   []types.Bullet{},
		}

		for j, sentence := range SplitSentences(entry.Description) {
			story.Bullets = append(story.Bullets, buildBullet(fmt.Sprintf("%s_bullet_%03d", storyID, j+1), sentence))
		}
		bank.Stories = append(bank.Stories, story)
	}

	// every generated bullet already carries a valid strength
	_ = NormalizeExperienceBank(bank)
	return bank
}

func buildBullet(id, text string) types.Bullet {
	metrics := DetectMetrics(text)
	return types.Bullet{
		ID:               id,
		Text:             text,
		Skills:           parsing.ExtractSkillsFromText(text),
		Metrics:          strings.Join(metrics, ", "),
		LengthChars:      utf8.RuneCountInString(text),
		EvidenceStrength: evidenceStrength(text, metrics),
		RiskFlags:        []string{},
	}
}

// evidenceStrength rates a bullet: quantified results are high, action-led
// statements medium, anything else low
func evidenceStrength(text string, metrics []string) string {
	switch {
	case len(metrics) > 0:
		return EvidenceStrengthHigh
	case parsing.StartsWithActionVerb(text):
		return EvidenceStrengthMedium
	default:
		return EvidenceStrengthLow
	}
}

// DetectMetrics returns the quantified figures in text: percentages, money,
// multipliers and counts with a unit
func DetectMetrics(text string) []string {
	matches := metricPattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimRight(strings.TrimSpace(m), ".,"))
	}
	return out
}

// SplitDuration splits a duration such as "Jan 2020 - Present" into its start
// and end. A single date is returned as the start with an empty end.
func SplitDuration(duration string) (start, end string) {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return "", ""
	}
	parts := durationSplitPattern.Split(duration, 2)
	if len(parts) == 1 {
		return duration, ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

// SplitSentences breaks a description into bullet-sized sentences. Inline
// bullet glyphs also end a sentence.
func SplitSentences(text string) []string {
	var out []string
	for _, chunk := range strings.Split(text, "•") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		last := 0
		for _, loc := range sentenceEndPattern.FindAllStringIndex(chunk, -1) {
			next := chunk[loc[1]:]
			// "e.g. the" or "v1.2 release" must not split
			if next == "" || !startsSentence(next) {
				continue
			}
			out = append(out, strings.TrimSpace(chunk[last:loc[1]]))
			last = loc[1]
		}
		if tail := strings.TrimSpace(chunk[last:]); tail != "" {
			out = append(out, tail)
		}
	}
	return out
}

func startsSentence(s string) bool {
	c := s[0]
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
