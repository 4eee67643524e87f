package skills

import (
	"testing"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() *types.ParsedResume {
	resume := types.NewParsedResume("")
	resume.Skills = []string{"Python", "Docker", "SQL"}
	resume.Tools = []string{"Git"}
	resume.Projects = []types.ProjectEntry{
		{Title: "Portfolio", TechStack: []string{"React", "python"}},
	}
	return resume
}

func TestAnalyzeGap(t *testing.T) {
	jobText := "We need Python and Kubernetes experience; AWS is a plus. Familiarity with Git."

	gap := AnalyzeGap(sampleResume(), jobText, "golang")

	assert.Equal(t, []string{"Go", "AWS", "Git", "Kubernetes", "Python"}, jobSkillNames(gap.JobSkills))
	assert.Equal(t, []string{"Git", "Python"}, gap.MatchingSkills)
	assert.Equal(t, []types.MissingSkill{
		{Skill: "Go", Category: db.SkillCategoryProgramming, Weight: 1.0},
		{Skill: "AWS", Category: db.SkillCategoryCloud, Weight: 0.5},
		{Skill: "Kubernetes", Category: db.SkillCategoryCloud, Weight: 0.5},
	}, gap.MissingSkills)
	assert.Equal(t, []string{"Docker", "React", "SQL"}, gap.ExtraSkills)

	// 2 matched of a union of 8
	assert.Equal(t, 25.0, gap.MatchScore)
	assert.Equal(t, 40.0, gap.Coverage)
	assert.Equal(t, 33.3, gap.WeightedCoverage)
}

func TestAnalyzeGap_FullMatch(t *testing.T) {
	resume := types.NewParsedResume("")
	resume.Skills = []string{"golang", "PostgreSQL"}

	gap := AnalyzeGap(resume, "Go services backed by postgres", "Go")

	assert.Equal(t, []string{"Go", "PostgreSQL"}, gap.MatchingSkills)
	assert.Empty(t, gap.MissingSkills)
	assert.Empty(t, gap.ExtraSkills)
	assert.Equal(t, 100.0, gap.MatchScore)
	assert.Equal(t, 100.0, gap.Coverage)
	assert.Equal(t, 100.0, gap.WeightedCoverage)
}

func TestAnalyzeGap_NoJobSkills(t *testing.T) {
	gap := AnalyzeGap(sampleResume(), "We value curiosity and kindness.")

	require.NotNil(t, gap)
	assert.Empty(t, gap.JobSkills)
	assert.NotNil(t, gap.MatchingSkills)
	assert.NotNil(t, gap.MissingSkills)
	assert.Zero(t, gap.MatchScore)
	assert.Zero(t, gap.Coverage)
	assert.Zero(t, gap.WeightedCoverage)
	assert.Len(t, gap.ExtraSkills, 5)
}

func TestAnalyzeGap_NilResume(t *testing.T) {
	gap := AnalyzeGap(nil, "", "Rust")

	require.Len(t, gap.MissingSkills, 1)
	assert.Equal(t, "Rust", gap.MissingSkills[0].Skill)
	assert.Equal(t, db.SkillCategoryProgramming, gap.MissingSkills[0].Category)
	assert.Zero(t, gap.MatchScore)
	assert.Empty(t, gap.ExtraSkills)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name  string
		part  int
		whole int
		want  float64
	}{
		{"empty whole", 0, 0, 0},
		{"third", 1, 3, 33.3},
		{"two thirds", 2, 3, 66.7},
		{"all", 4, 4, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, percent(tt.part, tt.whole))
		})
	}
}
