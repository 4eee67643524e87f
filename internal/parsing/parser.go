// Package parsing reconstructs structured résumé records from raw text using
// line-level heuristics: normalization, contact extraction, section location,
// and one reconstructor per section type.
package parsing

import (
	"log"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// Parser assembles a ParsedResume. Each reconstructor can be swapped
// independently; a panic inside one yields no entities for that section.
type Parser struct {
	Skills         Reconstructor[string]
	Experience     Reconstructor[types.ExperienceEntry]
	Education      Reconstructor[types.EducationEntry]
	Projects       Reconstructor[types.ProjectEntry]
	Certifications Reconstructor[types.CertificationEntry]

	// Logger receives isolation notices; nil uses the package logger (see SetLogger)
	Logger *log.Logger
}

// NewParser returns a Parser wired with the default reconstructors
func NewParser() *Parser {
	return &Parser{
		Skills:         SkillsReconstructor,
		Experience:     ExperienceReconstructor,
		Education:      EducationReconstructor,
		Projects:       ProjectReconstructor,
		Certifications: CertificationReconstructor,
	}
}

var defaultParser = NewParser()

// Parse reconstructs a résumé with the default Parser
func Parse(rawText string) (*types.ParsedResume, error) {
	return defaultParser.Parse(rawText)
}

// Parse reconstructs a résumé from raw text. It fails only with
// *EmptyInputError when rawText is empty or whitespace-only.
func (p *Parser) Parse(rawText string) (*types.ParsedResume, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, &EmptyInputError{}
	}

	lines := Normalize(rawText)
	text := lines.Text()
	index := LocateSections(lines)
	slice := func(label types.SectionLabel) []string {
		return SliceSection(lines, index, label)
	}

	resume := types.NewParsedResume(rawText)
	resume.Email = ExtractEmail(text)
	resume.Phone = ExtractPhone(text)
	resume.URLs = ExtractURLs(text)
	resume.Sections = index.Ordered()

	resume.Skills = runIsolated(p, types.SectionSkills, p.Skills, slice(types.SectionSkills))
	resume.Tools = ExtractTools(lines)
	resume.Experience = runIsolated(p, types.SectionExperience, p.Experience, slice(types.SectionExperience))
	resume.Education = runIsolated(p, types.SectionEducation, p.Education, slice(types.SectionEducation))
	resume.Projects = runIsolated(p, types.SectionProjects, p.Projects, slice(types.SectionProjects))
	resume.Certifications = runIsolated(p, types.SectionCertifications, p.Certifications, slice(types.SectionCertifications))

	resume.Summary = ReconstructSummary(slice(types.SectionSummary))
	resume.Languages = ReconstructLanguages(slice(types.SectionLanguages))

	resume.EnsureSlices()
	return resume, nil
}

var pkgLogger = log.Default()

// SetLogger redirects isolation notices of parsers without their own Logger.
// Passing nil restores the standard logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	pkgLogger = l
}

func (p *Parser) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
		return
	}
	pkgLogger.Printf(format, args...)
}

// runIsolated runs one reconstructor, converting a panic into an empty result
func runIsolated[T any](p *Parser, label types.SectionLabel, r Reconstructor[T], lines []string) (out []T) {
	if r == nil || len(lines) == 0 {
		return []T{}
	}
	defer func() {
		if cause := recover(); cause != nil {
			err := &ReconstructError{Section: string(label), Cause: cause}
			p.logf("[parse] %v; section recovered as empty", err)
			out = []T{}
		}
	}()

	out = r.Reconstruct(lines)
	if out == nil {
		out = []T{}
	}
	return out
}
