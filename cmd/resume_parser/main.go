// Package main implements the resume_parser CLI: heuristic résumé parsing,
// schema validation, skill-gap analysis and the REST API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_parser",
	Short: "Heuristic résumé parser",
	Long: `resume_parser turns résumé documents (PDF, DOCX, HTML, text) into structured JSON:
contact details, skills, tools, experience, education, projects and certifications.

It can also validate output against the bundled JSON Schemas, compare a résumé with a
job description, export an experience bank and serve everything over a REST API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
