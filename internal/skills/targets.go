package skills

import (
	"sort"

	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// Weight constants for skill sources
	weightRequired  = 1.0
	weightMentioned = 0.5
)

// BuildJobSkills collects the skills a job asks for. Explicitly required
// skills weigh 1.0; skills only mentioned in jobText weigh 0.5. Duplicates
// keep their highest weight. The result is sorted by weight (descending),
// then name.
func BuildJobSkills(jobText string, requiredSkills ...string) []types.JobSkill {
	// Map: skill key -> skill info (display name, weight, source)
	skillMap := make(map[string]*skillInfo)

	for _, raw := range requiredSkills {
		addOrUpdateSkill(skillMap, parsing.NormalizeSkill(raw), weightRequired, types.JobSkillSourceRequired)
	}
	for _, name := range parsing.ExtractSkillsFromText(jobText) {
		addOrUpdateSkill(skillMap, name, weightMentioned, types.JobSkillSourceMentioned)
	}

	skills := make([]types.JobSkill, 0, len(skillMap))
	for _, info := range skillMap {
		skills = append(skills, types.JobSkill{
			Name:   info.name,
			Weight: info.weight,
			Source: info.source,
		})
	}

	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Weight != skills[j].Weight {
			return skills[i].Weight > skills[j].Weight
		}
		return skills[i].Name < skills[j].Name
	})
	return skills
}

// skillInfo holds temporary information about a skill during building
type skillInfo struct {
	name   string
	weight float64
	source string
}

// addOrUpdateSkill adds a skill to the map or updates it if it exists,
// taking the maximum weight when duplicates are found.
func addOrUpdateSkill(skillMap map[string]*skillInfo, name string, weight float64, source string) {
	if name == "" {
		return
	}
	key := skillKey(name)
	if existing, exists := skillMap[key]; exists {
		if weight > existing.weight {
			existing.weight = weight
			existing.source = source
		}
		// If weights are equal, prioritize source by: required > mentioned
		if weight == existing.weight && getSourcePriority(source) > getSourcePriority(existing.source) {
			existing.source = source
		}
		return
	}
	skillMap[key] = &skillInfo{
		name:   name,
		weight: weight,
		source: source,
	}
}

// getSourcePriority returns a numeric priority for source types.
// Higher numbers indicate higher priority.
func getSourcePriority(source string) int {
	switch source {
	case types.JobSkillSourceRequired:
		return 2
	case types.JobSkillSourceMentioned:
		return 1
	default:
		return 0
	}
}
