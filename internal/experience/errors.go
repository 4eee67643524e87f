package experience

import "fmt"

// LoadError is returned when an experience bank file cannot be read or decoded
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", msg, e.Cause)
	}
	return "load error: " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NormalizationError identifies the bullet that failed normalization
type NormalizationError struct {
	StoryID  string
	BulletID string
	Message  string
	Cause    error
}

func (e *NormalizationError) Error() string {
	msg := e.Message
	if e.StoryID != "" {
		msg = fmt.Sprintf("%s in story '%s', bullet '%s'", msg, e.StoryID, e.BulletID)
	}
	if e.Cause != nil {
		return fmt.Sprintf("normalization error: %s: %v", msg, e.Cause)
	}
	return "normalization error: " + msg
}

func (e *NormalizationError) Unwrap() error {
	return e.Cause
}
