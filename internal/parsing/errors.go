package parsing

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is the sentinel matched by EmptyInputError via errors.Is
var ErrEmptyInput = errors.New("empty input")

// EmptyInputError is returned by Parse when the raw text is empty or whitespace-only
type EmptyInputError struct {
	Source string
}

func (e *EmptyInputError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error: %s: resume text is empty", e.Source)
	}
	return "parse error: resume text is empty"
}

// Is reports whether target is ErrEmptyInput
func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// ReconstructError describes a reconstructor that panicked and was isolated
type ReconstructError struct {
	Section string
	Cause   any
}

func (e *ReconstructError) Error() string {
	return fmt.Sprintf("reconstruct error in %s: %v", e.Section, e.Cause)
}
