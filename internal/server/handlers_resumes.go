package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/experience"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/server/middleware"
	"github.com/jonathan/resume-parser/internal/skills"
	"github.com/jonathan/resume-parser/internal/types"
)

// maxUploadSize bounds multipart uploads
const maxUploadSize = 10 << 20

// ParseResponse is returned by the parse endpoints
type ParseResponse struct {
	ID       *uuid.UUID          `json:"id,omitempty"`
	Resume   *types.ParsedResume `json:"resume"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

// EnhanceResponse is returned by the enhance endpoint
type EnhanceResponse struct {
	ID     uuid.UUID           `json:"id"`
	Resume *types.ParsedResume `json:"resume"`
	Stats  *llm.EnhanceStats   `json:"stats"`
}

// FieldDetail names one invalid field in a 400 response
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// handleParseUpload parses a multipart "file" upload. The result is saved
// when a database is configured unless the form sets save=false.
func (s *Server) handleParseUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", maxUploadSize))
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "file", Message: "a document upload is required"})
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}
	filename := header.Filename
	if filename == "" {
		filename = "upload"
	}
	if len(data) == 0 {
		s.errorFromErr(w, &parsing.EmptyInputError{Source: filename})
		return
	}

	owner, err := s.resolveOwner(r, r.FormValue("user_id"))
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	save := s.resumes != nil
	if v := r.FormValue("save"); v != "" {
		save, err = strconv.ParseBool(v)
		if err != nil {
			s.errorFromErr(w, &ErrValidation{Field: "save", Message: "must be a boolean"})
			return
		}
	}

	s.runParse(w, r, pipeline.Input{
		Filename:    filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, owner, save)
}

// handleParseText parses plain text from a JSON body. Nothing is persisted
// unless the body sets "save": true.
func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	var req types.ParseTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, err)
		return
	}

	owner, err := s.resolveOwner(r, req.UserID)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.runParse(w, r, pipeline.Input{Text: req.Text, Filename: req.Filename}, owner, req.Save)
}

func (s *Server) runParse(w http.ResponseWriter, r *http.Request, in pipeline.Input, owner *uuid.UUID, save bool) {
	if save && s.resumes == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "saving", Setting: "DATABASE_URL"})
		return
	}

	opts := pipeline.Options{
		Store:          s.store,
		StoreOriginals: save && s.store != nil,
		Save:           save,
		UserID:         owner,
		Metrics:        s.metrics,
	}
	if s.resumes != nil {
		opts.Saver = s.resumes
	}

	result, err := pipeline.Run(r.Context(), in, opts)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	status := http.StatusOK
	if result.ResumeID != nil {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, ParseResponse{
		ID:       result.ResumeID,
		Resume:   result.Resume,
		Metadata: result.Metadata,
	})
}

// handleGetResume returns a stored résumé record
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// handleUpdateResume replaces the stored data after a manual edit. The body
// must be a complete ParsedResume that passes schema validation.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadResume(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body: "+err.Error())
		return
	}
	var resume types.ParsedResume
	if err := json.Unmarshal(body, &resume); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := schemas.ValidateParsedResume(body); err != nil {
		s.errorFromErr(w, err)
		return
	}
	resume.EnsureSlices()

	updated, err := s.resumes.UpdateParsedResume(r.Context(), record.ID, &resume)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if updated == nil {
		s.errorFromErr(w, &ErrNotFound{Resource: "resume", ID: record.ID.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteResume deletes a stored résumé. The stored original is kept
// because content-addressed objects may back other records.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadResume(w, r)
	if !ok {
		return
	}

	if err := s.resumes.DeleteParsedResume(r.Context(), record.ID); err != nil {
		s.errorFromErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListUserResumes lists the résumés owned by a user
func (s *Server) handleListUserResumes(w http.ResponseWriter, r *http.Request) {
	if s.resumes == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "persistence", Setting: "DATABASE_URL"})
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "id", Message: "invalid user ID"})
		return
	}
	if caller, ok := s.caller(r); ok && caller != userID {
		s.errorFromErr(w, &ErrForbidden{Resource: "user resumes"})
		return
	}

	records, err := s.resumes.ListParsedResumesByUser(r.Context(), userID)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if records == nil {
		records = []db.ParsedResumeRecord{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resumes": records,
		"count":   len(records),
	})
}

// handleSkillGap compares a stored résumé with a job description
func (s *Server) handleSkillGap(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadResume(w, r)
	if !ok {
		return
	}

	var req types.SkillGapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, err)
		return
	}

	gap := skills.AnalyzeGap(record.Data, req.JobDescription, req.RequiredSkills...)
	s.jsonResponse(w, http.StatusOK, gap)
}

// handleExperienceBank exports a stored résumé as an experience bank
func (s *Server) handleExperienceBank(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, experience.BuildBank(record.Data))
}

// handleEnhance rewrites descriptions with the LLM and saves the result
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "enhancement", Setting: "GEMINI_API_KEY"})
		return
	}

	record, ok := s.loadResume(w, r)
	if !ok {
		return
	}

	enhanced, stats, err := llm.EnhanceResume(r.Context(), s.llm, record.Data, llm.EnhanceOptions{})
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	if stats.Rewritten > 0 {
		updated, err := s.resumes.UpdateParsedResume(r.Context(), record.ID, enhanced)
		if err != nil {
			s.errorFromErr(w, err)
			return
		}
		if updated == nil {
			s.errorFromErr(w, &ErrNotFound{Resource: "resume", ID: record.ID.String()})
			return
		}
	}
	log.Printf("[server] enhanced resume %s: rewritten=%d failed=%d skipped=%d",
		record.ID, stats.Rewritten, stats.Failed, stats.Skipped)

	s.jsonResponse(w, http.StatusOK, EnhanceResponse{ID: record.ID, Resume: enhanced, Stats: stats})
}

// loadResume resolves the {id} path value to a record the caller may
// access. It writes the error response and returns false otherwise.
func (s *Server) loadResume(w http.ResponseWriter, r *http.Request) (*db.ParsedResumeRecord, bool) {
	if s.resumes == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "persistence", Setting: "DATABASE_URL"})
		return nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "id", Message: "invalid resume ID"})
		return nil, false
	}

	record, err := s.resumes.GetParsedResume(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, err)
		return nil, false
	}
	if record == nil {
		s.errorFromErr(w, &ErrNotFound{Resource: "resume", ID: id.String()})
		return nil, false
	}

	// anonymous uploads are readable by any authenticated caller
	if caller, ok := s.caller(r); ok && record.UserID != nil && *record.UserID != caller {
		s.errorFromErr(w, &ErrForbidden{Resource: "resume"})
		return nil, false
	}
	return record, true
}

// caller returns the authenticated user when auth is enabled
func (s *Server) caller(r *http.Request) (uuid.UUID, bool) {
	if s.jwtService == nil {
		return uuid.Nil, false
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// resolveOwner picks the owner of a new résumé: the authenticated caller,
// else the requested user ID, else nobody.
func (s *Server) resolveOwner(r *http.Request, requested string) (*uuid.UUID, error) {
	var requestedID *uuid.UUID
	if requested != "" {
		id, err := uuid.Parse(requested)
		if err != nil {
			return nil, &ErrValidation{Field: "user_id", Message: "must be a UUID"}
		}
		requestedID = &id
	}

	caller, ok := s.caller(r)
	if !ok {
		return requestedID, nil
	}
	if requestedID != nil && *requestedID != caller {
		return nil, &ErrForbidden{Resource: "user " + requestedID.String()}
	}
	return &caller, nil
}

// validationDetails lists the invalid fields of a schema or request
// validation error
func validationDetails(err error) []FieldDetail {
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		details := make([]FieldDetail, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			details = append(details, FieldDetail{Field: fe.Field, Message: fe.Message})
		}
		return details
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]FieldDetail, 0, len(validationErrors))
		for _, fe := range validationErrors {
			details = append(details, FieldDetail{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			})
		}
		return details
	}

	var fieldErr *ErrValidation
	if errors.As(err, &fieldErr) {
		return []FieldDetail{{Field: fieldErr.Field, Message: fieldErr.Message}}
	}
	return nil
}
