package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/parsing"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 (415) 555-0100

SKILLS
Python, Docker, PostgreSQL

EXPERIENCE
Software Engineer at Acme Corp
Jan 2021 - Present
Built internal APIs serving 2M requests per day.

EDUCATION
Stanford University
B.S. in Computer Science, 2020
`

// executeCommand runs the root command in-process with fresh flag values
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag of cmd and its children to its default,
// since the flag variables are package globals shared across runs
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeParsedResume parses sampleResume and writes it as JSON
func writeParsedResume(t *testing.T, dir string) string {
	t.Helper()
	resume, err := parsing.Parse(sampleResume)
	require.NoError(t, err)
	data, err := json.MarshalIndent(resume, "", "  ")
	require.NoError(t, err)
	return writeFile(t, dir, "parsed_resume.json", string(data))
}
