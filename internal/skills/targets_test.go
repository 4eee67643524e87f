package skills

import (
	"testing"

	"github.com/jonathan/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildJobSkills_OnlyRequired(t *testing.T) {
	skills := BuildJobSkills("", "Go", "python", "  ")

	require.Len(t, skills, 2)
	for _, skill := range skills {
		assert.Equal(t, 1.0, skill.Weight)
		assert.Equal(t, types.JobSkillSourceRequired, skill.Source)
	}
	assert.Equal(t, "Go", skills[0].Name)
	assert.Equal(t, "Python", skills[1].Name)
}

func TestBuildJobSkills_OnlyMentioned(t *testing.T) {
	skills := BuildJobSkills("Experience with Kubernetes and Terraform on AWS.")

	require.Len(t, skills, 3)
	for _, skill := range skills {
		assert.Equal(t, 0.5, skill.Weight)
		assert.Equal(t, types.JobSkillSourceMentioned, skill.Source)
	}
	assert.Equal(t, []string{"AWS", "Kubernetes", "Terraform"}, jobSkillNames(skills))
}

func TestBuildJobSkills_RequiredWinsOverMentioned(t *testing.T) {
	skills := BuildJobSkills("Strong Python and Docker skills", "python3")

	require.Len(t, skills, 2)
	assert.Equal(t, types.JobSkill{Name: "Python", Weight: 1.0, Source: types.JobSkillSourceRequired}, skills[0])
	assert.Equal(t, types.JobSkill{Name: "Docker", Weight: 0.5, Source: types.JobSkillSourceMentioned}, skills[1])
}

func TestBuildJobSkills_Empty(t *testing.T) {
	skills := BuildJobSkills("")
	assert.NotNil(t, skills)
	assert.Empty(t, skills)
}

func TestAddOrUpdateSkill(t *testing.T) {
	tests := []struct {
		name       string
		first      float64
		firstSrc   string
		second     float64
		secondSrc  string
		wantWeight float64
		wantSource string
	}{
		{"higher weight wins", weightMentioned, types.JobSkillSourceMentioned, weightRequired, types.JobSkillSourceRequired, 1.0, types.JobSkillSourceRequired},
		{"lower weight ignored", weightRequired, types.JobSkillSourceRequired, weightMentioned, types.JobSkillSourceMentioned, 1.0, types.JobSkillSourceRequired},
		{"equal weight prefers priority", weightRequired, types.JobSkillSourceMentioned, weightRequired, types.JobSkillSourceRequired, 1.0, types.JobSkillSourceRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skillMap := make(map[string]*skillInfo)
			addOrUpdateSkill(skillMap, "Go", tt.first, tt.firstSrc)
			addOrUpdateSkill(skillMap, "golang", tt.second, tt.secondSrc)

			require.Len(t, skillMap, 1)
			info := skillMap["go"]
			require.NotNil(t, info)
			assert.Equal(t, "Go", info.name)
			assert.Equal(t, tt.wantWeight, info.weight)
			assert.Equal(t, tt.wantSource, info.source)
		})
	}
}

func TestGetSourcePriority(t *testing.T) {
	assert.Greater(t, getSourcePriority(types.JobSkillSourceRequired), getSourcePriority(types.JobSkillSourceMentioned))
	assert.Greater(t, getSourcePriority(types.JobSkillSourceMentioned), getSourcePriority("unknown"))
}

func jobSkillNames(skills []types.JobSkill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
