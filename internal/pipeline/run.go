// Package pipeline orchestrates one résumé from its source document to a
// validated, optionally enhanced and persisted ParsedResume.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/storage"
	"github.com/jonathan/resume-parser/internal/types"
)

// Progress steps reported through Options.OnProgress
const (
	StepIngest   = "ingest"
	StepParse    = "parse"
	StepValidate = "validate"
	StepEnhance  = "enhance"
	StepStore    = "store"
	StepSave     = "save"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Input   string `json:"input"`
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Saver persists parsed résumés. *db.DB implements it.
type Saver interface {
	SaveParsedResume(ctx context.Context, input *db.ParsedResumeInput) (*db.ParsedResumeRecord, error)
}

// Options holds configuration shared by every input of a run
type Options struct {
	UseBrowser bool
	Verbose    bool

	// Store is read for S3 inputs. When StoreOriginals is set, uploaded and
	// local documents are also written to it under storage.ObjectKey.
	Store          storage.Store
	StoreOriginals bool

	// Saver receives the result when Save is set
	Saver  Saver
	Save   bool
	UserID *uuid.UUID

	// LLM enables enhancement when non-nil
	LLM         llm.Client
	EnhanceTier llm.ModelTier

	Metrics    *observability.Metrics
	OnProgress ProgressCallback
}

// Result is the output of one successful run
type Result struct {
	Resume   *types.ParsedResume `json:"resume"`
	Metadata *ingestion.Metadata `json:"metadata"`
	ResumeID *uuid.UUID          `json:"resume_id,omitempty"`
	Enhance  *llm.EnhanceStats   `json:"enhance,omitempty"`
}

// ErrNoStore is returned for S3 inputs when Options.Store is nil
var ErrNoStore = errors.New("object storage is not configured")

// Run ingests one input, parses it, validates the output against the
// parsed résumé schema and then optionally enhances, stores and saves it.
// Enhancement failures are logged and the unenhanced résumé is kept.
func Run(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	source := string(in.Source())
	result, err := run(ctx, in, opts)
	if err != nil {
		opts.Metrics.ObserveParse(source, observability.OutcomeError, time.Since(start))
		return nil, err
	}
	opts.Metrics.ObserveParse(source, observability.OutcomeSuccess, time.Since(start))
	opts.Metrics.ObserveEntities(entityCounts(result.Resume))
	return result, nil
}

func run(ctx context.Context, in Input, opts Options) (*Result, error) {
	name := in.Name()

	rawText, metadata, data, err := ingest(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", name, err)
	}
	emitProgress(opts, name, StepIngest, fmt.Sprintf("extracted %d characters (%s)", len(rawText), metadata.ContentType))
	if opts.Verbose {
		log.Printf("[VERBOSE] [pipeline] %s: %d bytes, sha256 %s", name, metadata.SizeBytes, metadata.Hash)
	}

	resume, err := parsing.Parse(rawText)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	emitProgress(opts, name, StepParse, fmt.Sprintf("found %d sections", len(resume.Sections)))

	if err := validateResume(resume); err != nil {
		return nil, fmt.Errorf("validating %s: %w", name, err)
	}
	emitProgress(opts, name, StepValidate, "output matches schema")

	result := &Result{Resume: resume, Metadata: metadata}

	if opts.LLM != nil {
		enhanced, stats, err := llm.EnhanceResume(ctx, opts.LLM, resume, llm.EnhanceOptions{
			Tier:    opts.EnhanceTier,
			Verbose: opts.Verbose,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Printf("[pipeline] enhancement skipped for %s: %v", name, err)
		} else {
			result.Resume = enhanced
			result.Enhance = stats
			emitProgress(opts, name, StepEnhance, fmt.Sprintf("rewrote %d entries", stats.Rewritten))
		}
	}

	if opts.StoreOriginals && opts.Store != nil && data != nil && metadata.StorageKey == "" {
		key := storage.ObjectKey(userKey(opts.UserID), metadata.Hash, metadata.Filename)
		if err := opts.Store.Put(ctx, key, metadata.ContentType, data); err != nil {
			return nil, fmt.Errorf("storing original of %s: %w", name, err)
		}
		metadata.StorageKey = key
		emitProgress(opts, name, StepStore, "stored original as "+key)
	}

	if opts.Save {
		if opts.Saver == nil {
			return nil, fmt.Errorf("saving %s: no database configured", name)
		}
		record, err := opts.Saver.SaveParsedResume(ctx, &db.ParsedResumeInput{
			UserID:      opts.UserID,
			Filename:    metadata.Filename,
			ContentHash: metadata.Hash,
			StorageKey:  metadata.StorageKey,
			Resume:      result.Resume,
		})
		if err != nil {
			return nil, fmt.Errorf("saving %s: %w", name, err)
		}
		result.ResumeID = &record.ID
		emitProgress(opts, name, StepSave, "saved as "+record.ID.String())
	}

	return result, nil
}

// ingest returns the raw text, its metadata and the original bytes when the
// input carried a document worth storing.
func ingest(ctx context.Context, in Input, opts Options) (string, *ingestion.Metadata, []byte, error) {
	switch in.Source() {
	case SourceText:
		filename := in.Filename
		if filename == "" {
			filename = "resume.txt"
		}
		data := []byte(in.Text)
		return in.Text, ingestion.NewMetadata(filename, ingestion.ContentTypePlain, data), nil, nil

	case SourceURL:
		text, metadata, err := ingestion.IngestFromURL(ctx, in.URL, opts.UseBrowser, opts.Verbose)
		return text, metadata, nil, err

	case SourceS3:
		if opts.Store == nil {
			return "", nil, nil, ErrNoStore
		}
		data, err := opts.Store.Get(ctx, in.S3Key)
		if err != nil {
			return "", nil, nil, err
		}
		text, metadata, err := ingestion.IngestBytes(path.Base(in.S3Key), in.ContentType, data)
		if err != nil {
			return "", nil, nil, err
		}
		metadata.StorageKey = in.S3Key
		return text, metadata, nil, nil

	case SourceBytes:
		text, metadata, err := ingestion.IngestBytes(in.Filename, in.ContentType, in.Data)
		return text, metadata, in.Data, err

	default:
		data, err := os.ReadFile(in.Path)
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to read file %s: %w", in.Path, err)
		}
		text, metadata, err := ingestion.IngestBytes(filepath.Base(in.Path), "", data)
		return text, metadata, data, err
	}
}

func validateResume(resume *types.ParsedResume) error {
	data, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("failed to marshal parsed resume: %w", err)
	}
	return schemas.ValidateParsedResume(data)
}

func emitProgress(opts Options, input, step, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Input: input, Step: step, Message: message})
	}
}

func userKey(userID *uuid.UUID) string {
	if userID == nil {
		return ""
	}
	return userID.String()
}

func entityCounts(r *types.ParsedResume) map[string]int {
	return map[string]int{
		"skills":         len(r.Skills),
		"tools":          len(r.Tools),
		"experience":     len(r.Experience),
		"education":      len(r.Education),
		"projects":       len(r.Projects),
		"certifications": len(r.Certifications),
	}
}
