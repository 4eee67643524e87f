// Package skills compares the skills of a parsed résumé with a job description.
package skills

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/types"
)

// AnalyzeGap compares the résumé's skills, tools and project tech stacks with the
// skills named in jobText plus requiredSkills. Names are compared after
// canonicalization, case-insensitively.
func AnalyzeGap(resume *types.ParsedResume, jobText string, requiredSkills ...string) *types.SkillGap {
	jobSkills := BuildJobSkills(jobText, requiredSkills...)
	candidate := candidateSkills(resume)

	gap := &types.SkillGap{
		JobSkills:      jobSkills,
		MatchingSkills: []string{},
		MissingSkills:  []types.MissingSkill{},
		ExtraSkills:    []string{},
	}

	jobKeys := make(map[string]bool, len(jobSkills))
	var totalWeight, matchedWeight float64
	for _, skill := range jobSkills {
		key := skillKey(skill.Name)
		jobKeys[key] = true
		totalWeight += skill.Weight

		if _, ok := candidate[key]; ok {
			gap.MatchingSkills = append(gap.MatchingSkills, skill.Name)
			matchedWeight += skill.Weight
			continue
		}
		gap.MissingSkills = append(gap.MissingSkills, types.MissingSkill{
			Skill:    skill.Name,
			Category: db.DetectSkillCategory(skill.Name),
			Weight:   skill.Weight,
		})
	}

	for key, name := range candidate {
		if !jobKeys[key] {
			gap.ExtraSkills = append(gap.ExtraSkills, name)
		}
	}

	sort.Strings(gap.MatchingSkills)
	sort.Slice(gap.MissingSkills, func(i, j int) bool {
		if gap.MissingSkills[i].Weight != gap.MissingSkills[j].Weight {
			return gap.MissingSkills[i].Weight > gap.MissingSkills[j].Weight
		}
		return gap.MissingSkills[i].Skill < gap.MissingSkills[j].Skill
	})
	sort.Strings(gap.ExtraSkills)

	matched := len(gap.MatchingSkills)
	union := len(jobSkills) + len(candidate) - matched
	gap.MatchScore = percent(matched, union)
	gap.Coverage = percent(matched, len(jobSkills))
	if totalWeight > 0 {
		gap.WeightedCoverage = round1(matchedWeight / totalWeight * 100)
	}
	return gap
}

// candidateSkills maps each résumé skill key to its display name
func candidateSkills(resume *types.ParsedResume) map[string]string {
	out := make(map[string]string)
	if resume == nil {
		return out
	}
	add := func(names []string) {
		for _, name := range names {
			canonical := parsing.NormalizeSkill(name)
			if canonical == "" {
				continue
			}
			if _, ok := out[skillKey(canonical)]; !ok {
				out[skillKey(canonical)] = canonical
			}
		}
	}
	add(resume.Skills)
	add(resume.Tools)
	for _, project := range resume.Projects {
		add(project.TechStack)
	}
	return out
}

func skillKey(name string) string {
	return strings.ToLower(parsing.NormalizeSkill(name))
}

// percent returns part/whole x 100 rounded to one decimal, or 0 for an empty whole
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
