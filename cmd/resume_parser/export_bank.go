package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/experience"
	"github.com/jonathan/resume-parser/internal/observability"
)

var exportBankCmd = &cobra.Command{
	Use:   "export-bank",
	Short: "Export a parsed résumé as an experience bank",
	Long:  "Converts the experience entries of a parsed résumé JSON file into a normalized experience bank: one story per entry and one bullet per sentence.",
	RunE:  runExportBank,
}

var (
	exportBankResumeFile string
	exportBankOutputFile string
	exportBankVerbose    bool
)

func init() {
	exportBankCmd.Flags().StringVarP(&exportBankResumeFile, "resume", "r", "", "Path to parsed résumé JSON file (required)")
	exportBankCmd.Flags().StringVarP(&exportBankOutputFile, "out", "o", "", "Path to output experience bank JSON file (required)")
	exportBankCmd.Flags().BoolVarP(&exportBankVerbose, "verbose", "v", false, "Print a summary of the exported bank")

	if err := exportBankCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := exportBankCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(exportBankCmd)
}

func runExportBank(cmd *cobra.Command, _ []string) error {
	resume, err := loadParsedResume(exportBankResumeFile)
	if err != nil {
		return err
	}

	bank := experience.BuildBank(resume)

	if err := experience.WriteExperienceBank(exportBankOutputFile, bank); err != nil {
		return fmt.Errorf("failed to write experience bank: %w", err)
	}

	out := cmd.OutOrStdout()
	if exportBankVerbose {
		observability.NewPrinter(out).PrintExperienceBank(bank)
	}
	_, _ = fmt.Fprintf(out, "Exported %d stories (%d bullets)\n", len(bank.Stories), bank.BulletCount())
	_, _ = fmt.Fprintf(out, "Output: %s\n", exportBankOutputFile)

	return nil
}
