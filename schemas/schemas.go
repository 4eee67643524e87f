// Package schemas embeds the JSON Schemas for the documents this module writes.
package schemas

import (
	"embed"
	"io/fs"
)

// Schema file names
const (
	ParsedResume   = "parsed_resume.schema.json"
	ExperienceBank = "experience_bank.schema.json"
	SkillGap       = "skill_gap.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the content of an embedded schema file
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Has reports whether name is an embedded schema
func Has(name string) bool {
	_, err := fs.Stat(files, name)
	return err == nil
}
