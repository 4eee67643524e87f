package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/types"
)

func TestSkillGapCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	resumePath := writeParsedResume(t, dir)

	stdout, _, err := executeCommand(t, "skill-gap", "--resume", resumePath,
		"--skill", "Python", "--skill", "Kubernetes", "--json")
	require.NoError(t, err)

	var gap types.SkillGap
	require.NoError(t, json.Unmarshal([]byte(stdout), &gap))
	assert.Contains(t, gap.MatchingSkills, "Python")

	missing := make([]string, len(gap.MissingSkills))
	for i, m := range gap.MissingSkills {
		missing[i] = m.Skill
	}
	assert.Contains(t, missing, "Kubernetes")
	assert.Equal(t, 50.0, gap.Coverage)
}

func TestSkillGapCommand_JobFile(t *testing.T) {
	dir := t.TempDir()
	resumePath := writeParsedResume(t, dir)
	jobPath := writeFile(t, dir, "job.txt", "We are hiring a backend engineer with Python and Docker experience.")

	stdout, _, err := executeCommand(t, "skill-gap", "-r", resumePath, "-j", jobPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Python")
}

func TestSkillGapCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	resumePath := writeParsedResume(t, dir)
	invalid := writeFile(t, dir, "invalid.json", `{"email": "not-an-email"}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing resume flag", args: []string{"skill-gap", "--skill", "Go"}, wantErr: "required"},
		{name: "no job or skills", args: []string{"skill-gap", "--resume", resumePath}, wantErr: "--job or at least one --skill"},
		{name: "missing resume file", args: []string{"skill-gap", "--resume", filepath.Join(dir, "nope.json"), "--skill", "Go"}, wantErr: "failed to read parsed résumé"},
		{name: "invalid resume", args: []string{"skill-gap", "--resume", invalid, "--skill", "Go"}, wantErr: "invalid parsed résumé"},
		{name: "missing job file", args: []string{"skill-gap", "--resume", resumePath, "--job", filepath.Join(dir, "nope.txt")}, wantErr: "failed to read job description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
