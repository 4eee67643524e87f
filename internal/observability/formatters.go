// Package observability provides formatted output for verbose CLI mode and
// Prometheus metrics for the parser and the HTTP API.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	count := min(len(items), limit)
	fmt.Fprintf(sb, "%s %s", label, strings.Join(items[:count], ", "))
	if len(items) > limit {
		fmt.Fprintf(sb, " (+%d more)", len(items)-limit)
	}
	sb.WriteString("\n")
}

// PrintParsedResume outputs a human-readable summary of a parsed résumé.
func (p *Printer) PrintParsedResume(resume *types.ParsedResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Email:    %s\n", orDash(resume.Email))
	fmt.Fprintf(&sb, "Phone:    %s\n", orDash(resume.Phone))
	for _, u := range resume.URLs {
		fmt.Fprintf(&sb, "URL:      %s\n", u)
	}

	sections := make([]string, len(resume.Sections))
	for i, s := range resume.Sections {
		sections[i] = string(s)
	}
	writeList(&sb, "Sections:", sections, len(sections))
	sb.WriteString("\n")

	writeList(&sb, "Skills:  ", resume.Skills, maxItemsToShow)
	writeList(&sb, "Tools:   ", resume.Tools, maxItemsToShow)
	writeList(&sb, "Languages:", resume.Languages, maxItemsToShow)

	if len(resume.Experience) > 0 {
		sb.WriteString("\nExperience:\n")
		count := min(len(resume.Experience), maxItemsToShow)
		for _, e := range resume.Experience[:count] {
			fmt.Fprintf(&sb, "  • %s", orDash(e.Role))
			if e.Company != "" {
				fmt.Fprintf(&sb, " @ %s", e.Company)
			}
			if e.Duration != "" {
				fmt.Fprintf(&sb, " (%s)", e.Duration)
			}
			sb.WriteString("\n")
		}
		if len(resume.Experience) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(resume.Experience)-maxItemsToShow)
		}
	}

	if len(resume.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, e := range resume.Education {
			fmt.Fprintf(&sb, "  • %s", orDash(e.Institution))
			if e.Degree != "" {
				fmt.Fprintf(&sb, ", %s", e.Degree)
			}
			if e.Year != nil {
				fmt.Fprintf(&sb, " (%d)", *e.Year)
			}
			sb.WriteString("\n")
		}
	}

	fmt.Fprintf(&sb, "\nProjects: %d   Certifications: %d", len(resume.Projects), len(resume.Certifications))

	p.printBox("PARSED RESUME", sb.String())
}

// PrintSkillGap outputs the match score and the most important missing skills.
func (p *Printer) PrintSkillGap(gap *types.SkillGap) {
	if gap == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Match score:       %.1f%%\n", gap.MatchScore)
	fmt.Fprintf(&sb, "Coverage:          %.1f%%\n", gap.Coverage)
	fmt.Fprintf(&sb, "Weighted coverage: %.1f%%\n\n", gap.WeightedCoverage)

	writeList(&sb, "Matching:", gap.MatchingSkills, maxItemsToShow)

	if len(gap.MissingSkills) > 0 {
		sb.WriteString("Missing:\n")
		count := min(len(gap.MissingSkills), maxItemsToShow)
		for _, m := range gap.MissingSkills[:count] {
			fmt.Fprintf(&sb, "  ✗ %s [%s] %.1f\n", m.Skill, m.Category, m.Weight)
		}
		if len(gap.MissingSkills) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(gap.MissingSkills)-maxItemsToShow)
		}
	}

	writeList(&sb, "Extra:   ", gap.ExtraSkills, maxItemsToShow)

	p.printBox("SKILL GAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExperienceBank outputs the stories and bullet counts of an exported bank.
func (p *Printer) PrintExperienceBank(bank *types.ExperienceBank) {
	if bank == nil || len(bank.Stories) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Stories: %d  Bullets: %d\n\n", len(bank.Stories), bank.BulletCount())

	count := min(len(bank.Stories), maxItemsToShow)
	for i, story := range bank.Stories[:count] {
		fmt.Fprintf(&sb, "%s  %s @ %s\n", story.ID, orDash(story.Role), orDash(story.Company))
		strength := story.StrengthCounts()
		fmt.Fprintf(&sb, "    %d bullets (high %d, medium %d, low %d)\n",
			len(story.Bullets), strength["high"], strength["medium"], strength["low"])
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(bank.Stories) > maxItemsToShow {
		fmt.Fprintf(&sb, "\n... and %d more stories", len(bank.Stories)-maxItemsToShow)
	}

	p.printBox("EXPERIENCE BANK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the result of a schema validation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(problems []string) {
	if len(problems) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ SCHEMA VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d problems:\n", len(problems))
	for _, problem := range problems {
		fmt.Fprintf(&sb, "\n⚠ %s", problem)
	}

	p.printBox("SCHEMA VIOLATIONS", sb.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
