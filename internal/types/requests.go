package types

import (
	"github.com/go-playground/validator/v10"
)

// ParseTextRequest is the body of a plain-text parse request
type ParseTextRequest struct {
	Text     string `json:"text" validate:"required"`
	Filename string `json:"filename,omitempty" validate:"omitempty,max=255"`
	UserID   string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Save     bool   `json:"save,omitempty"`
}

// SkillGapRequest is the body of a skill-gap request
type SkillGapRequest struct {
	JobDescription string   `json:"job_description" validate:"required_without=RequiredSkills"`
	RequiredSkills []string `json:"required_skills,omitempty" validate:"omitempty,dive,required,max=100"`
}

// Validate validates the ParseTextRequest using the validator.
func (r *ParseTextRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SkillGapRequest using the validator.
func (r *SkillGapRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
