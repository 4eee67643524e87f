package types

// Job skill sources, in priority order
const (
	JobSkillSourceRequired  = "required"
	JobSkillSourceMentioned = "mentioned"
)

// JobSkill is a skill the job asks for, weighted by how it was found
type JobSkill struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Source string  `json:"source"`
}

// MissingSkill is a job skill absent from the résumé
type MissingSkill struct {
	Skill    string  `json:"skill"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

// SkillGap compares a parsed résumé against a job description
type SkillGap struct {
	MatchScore       float64        `json:"match_score"`       // Jaccard similarity x 100
	Coverage         float64        `json:"coverage"`          // share of job skills present, x 100
	WeightedCoverage float64        `json:"weighted_coverage"` // coverage with required skills counting double
	JobSkills        []JobSkill     `json:"job_skills"`
	MatchingSkills   []string       `json:"matching_skills"`
	MissingSkills    []MissingSkill `json:"missing_skills"`
	ExtraSkills      []string       `json:"extra_skills"`
}
