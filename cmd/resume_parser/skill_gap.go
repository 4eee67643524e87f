package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/skills"
	"github.com/jonathan/resume-parser/internal/types"
)

var skillGapCmd = &cobra.Command{
	Use:   "skill-gap",
	Short: "Compare a parsed résumé against a job description",
	Long: `Loads a parsed résumé JSON file and a job description, then reports which job skills
the résumé covers, which are missing and the match scores. Skills passed with --skill count
as required.`,
	RunE: runSkillGap,
}

var (
	skillGapResumeFile string
	skillGapJobFile    string
	skillGapSkills     []string
	skillGapJSON       bool
)

func init() {
	skillGapCmd.Flags().StringVarP(&skillGapResumeFile, "resume", "r", "", "Path to parsed résumé JSON file (required)")
	skillGapCmd.Flags().StringVarP(&skillGapJobFile, "job", "j", "", "Path to job description text file")
	skillGapCmd.Flags().StringArrayVarP(&skillGapSkills, "skill", "s", nil, "Required skill (repeatable)")
	skillGapCmd.Flags().BoolVar(&skillGapJSON, "json", false, "Print the report as JSON")

	if err := skillGapCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(skillGapCmd)
}

func runSkillGap(cmd *cobra.Command, _ []string) error {
	if skillGapJobFile == "" && len(skillGapSkills) == 0 {
		return fmt.Errorf("--job or at least one --skill is required")
	}

	resume, err := loadParsedResume(skillGapResumeFile)
	if err != nil {
		return err
	}

	var jobText string
	if skillGapJobFile != "" {
		data, err := os.ReadFile(skillGapJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobText = string(data)
	}

	gap := skills.AnalyzeGap(resume, jobText, skillGapSkills...)

	if skillGapJSON {
		return printJSON(cmd.OutOrStdout(), gap)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSkillGap(gap)
	return nil
}

// loadParsedResume reads a parsed résumé file and checks it against the schema
func loadParsedResume(path string) (*types.ParsedResume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parsed résumé: %w", err)
	}
	if err := schemas.ValidateParsedResume(data); err != nil {
		return nil, fmt.Errorf("invalid parsed résumé %s: %s", path, strings.TrimSpace(err.Error()))
	}

	var resume types.ParsedResume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parsed résumé: %w", err)
	}
	resume.EnsureSlices()
	return &resume, nil
}
