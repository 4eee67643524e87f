package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-parser/internal/types"
)

// SkillCategory constants for categorizing skills
const (
	SkillCategoryProgramming = "programming"
	SkillCategoryFramework   = "framework"
	SkillCategoryDatabase    = "database"
	SkillCategoryTool        = "tool"
	SkillCategoryCloud       = "cloud"
	SkillCategoryData        = "data"
	SkillCategorySoftSkill   = "soft_skill"
	SkillCategoryOther       = "other"
)

// Resume skill link kinds
const (
	ResumeSkillKindSkill = "skill"
	ResumeSkillKindTool  = "tool"
)

// Skill represents a normalized skill entry
type Skill struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	NameNormalized string    `json:"name_normalized"`
	Category       *string   `json:"category,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ResumeSkill is a skill linked to a parsed résumé
type ResumeSkill struct {
	Skill
	Kind string `json:"kind"`
}

// ParsedResumeRecord is a stored parsed résumé
type ParsedResumeRecord struct {
	ID          uuid.UUID           `json:"id"`
	UserID      *uuid.UUID          `json:"user_id,omitempty"`
	Filename    string              `json:"filename"`
	ContentHash string              `json:"content_hash"`
	StorageKey  *string             `json:"storage_key,omitempty"`
	Data        *types.ParsedResume `json:"data"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ParsedResumeInput contains the fields needed to store a parsed résumé
type ParsedResumeInput struct {
	UserID      *uuid.UUID
	Filename    string
	ContentHash string
	StorageKey  string
	Resume      *types.ParsedResume
}
