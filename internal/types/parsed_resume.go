// Package types provides type definitions for structured data used throughout the resume-parser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SectionLabel identifies a labeled region of a résumé
type SectionLabel string

// Known section labels. Order matters only for display.
const (
	SectionSkills         SectionLabel = "SKILLS"
	SectionExperience     SectionLabel = "EXPERIENCE"
	SectionEducation      SectionLabel = "EDUCATION"
	SectionProjects       SectionLabel = "PROJECTS"
	SectionCertifications SectionLabel = "CERTIFICATIONS"
	SectionSummary        SectionLabel = "SUMMARY"
	SectionDeclaration    SectionLabel = "DECLARATION"
	SectionReferences     SectionLabel = "REFERENCES"
	SectionLanguages      SectionLabel = "LANGUAGES"
	SectionInterests      SectionLabel = "INTERESTS"
)

// AllSections returns every known section label
func AllSections() []SectionLabel {
	return []SectionLabel{
		SectionSkills,
		SectionExperience,
		SectionEducation,
		SectionProjects,
		SectionCertifications,
		SectionSummary,
		SectionDeclaration,
		SectionReferences,
		SectionLanguages,
		SectionInterests,
	}
}

// ExperienceEntry represents one job or internship
type ExperienceEntry struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// EducationEntry represents one institution/degree record
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Year        *int   `json:"year,omitempty"`
}

// ProjectEntry represents one project
type ProjectEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
}

// CertificationEntry represents one certification
type CertificationEntry struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// ParsedResume is the structured record reconstructed from raw résumé text.
// Entity slices are never nil.
type ParsedResume struct {
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	URLs           []string             `json:"urls"`
	Summary        string               `json:"summary,omitempty"`
	Skills         []string             `json:"skills"`
	Tools          []string             `json:"tools"`
	Languages      []string             `json:"languages"`
	Experience     []ExperienceEntry    `json:"experience"`
	Education      []EducationEntry     `json:"education"`
	Projects       []ProjectEntry       `json:"projects"`
	Certifications []CertificationEntry `json:"certifications"`
	Sections       []SectionLabel       `json:"sections"`
	RawText        string               `json:"raw_text"`
}

// NewParsedResume returns a ParsedResume with every slice initialized
func NewParsedResume(rawText string) *ParsedResume {
	return &ParsedResume{
		URLs:           []string{},
		Skills:         []string{},
		Tools:          []string{},
		Languages:      []string{},
		Experience:     []ExperienceEntry{},
		Education:      []EducationEntry{},
		Projects:       []ProjectEntry{},
		Certifications: []CertificationEntry{},
		Sections:       []SectionLabel{},
		RawText:        rawText,
	}
}

// EnsureSlices replaces nil slices with empty ones. Used after decoding
// caller-supplied JSON so the never-nil invariant holds for edited records.
func (r *ParsedResume) EnsureSlices() {
	if r.URLs == nil {
		r.URLs = []string{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Tools == nil {
		r.Tools = []string{}
	}
	if r.Languages == nil {
		r.Languages = []string{}
	}
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	if r.Education == nil {
		r.Education = []EducationEntry{}
	}
	if r.Projects == nil {
		r.Projects = []ProjectEntry{}
	}
	for i := range r.Projects {
		if r.Projects[i].TechStack == nil {
			r.Projects[i].TechStack = []string{}
		}
	}
	if r.Certifications == nil {
		r.Certifications = []CertificationEntry{}
	}
	if r.Sections == nil {
		r.Sections = []SectionLabel{}
	}
}

// Clone returns a deep copy of the résumé
func (r *ParsedResume) Clone() *ParsedResume {
	if r == nil {
		return nil
	}
	out := *r
	out.URLs = append([]string{}, r.URLs...)
	out.Skills = append([]string{}, r.Skills...)
	out.Tools = append([]string{}, r.Tools...)
	out.Languages = append([]string{}, r.Languages...)
	out.Experience = append([]ExperienceEntry{}, r.Experience...)
	out.Education = make([]EducationEntry, len(r.Education))
	for i, edu := range r.Education {
		if edu.Year != nil {
			year := *edu.Year
			edu.Year = &year
		}
		out.Education[i] = edu
	}
	out.Projects = make([]ProjectEntry, len(r.Projects))
	for i, p := range r.Projects {
		p.TechStack = append([]string{}, p.TechStack...)
		out.Projects[i] = p
	}
	out.Certifications = append([]CertificationEntry{}, r.Certifications...)
	out.Sections = append([]SectionLabel{}, r.Sections...)
	return &out
}
