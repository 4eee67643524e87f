package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/storage"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the addressed resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrForbidden indicates the caller does not own the resource
type ErrForbidden struct {
	Resource string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("access to %s denied", e.Resource)
}

// ErrUnavailable indicates a feature whose backing service is not configured
type ErrUnavailable struct {
	Feature string
	Setting string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is unavailable: set %s", e.Feature, e.Setting)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Errors wrapped by the pipeline are matched through their chain.
func HTTPStatus(err error) int {
	var (
		emptyInput  *parsing.EmptyInputError
		extraction  *ingestion.ExtractionError
		schemaErr   *schemas.ValidationError
		fieldErr    *ErrValidation
		validateErr validator.ValidationErrors
		notFound    *ErrNotFound
		forbidden   *ErrForbidden
		unavailable *ErrUnavailable
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emptyInput):
		return http.StatusUnprocessableEntity
	case errors.As(err, &extraction):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &schemaErr), errors.As(err, &fieldErr), errors.As(err, &validateErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, db.ErrNotFound), errors.Is(err, storage.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
