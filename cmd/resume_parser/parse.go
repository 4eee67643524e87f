package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/storage"
	"github.com/jonathan/resume-parser/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse résumé documents into structured JSON",
	Long: `Extracts text from each document, reconstructs the résumé and validates the result
against the parsed résumé schema.

Inputs come from --in (repeatable, parsed concurrently), --url or --s3-key. Without --out
the JSON is printed to stdout; with --out each document gets parsed_resume.json and
parsed_resume.meta.json.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runParse,
}

var (
	parseConfigPath  string
	parseInputs      []string
	parseURL         string
	parseS3Key       string
	parseOut         string
	parseWorkers     int
	parseSave        bool
	parseEnhance     bool
	parseUseBrowser  bool
	parseVerbose     bool
	parseUserID      string
	parseAPIKey      string
	parseDatabaseURL string
)

func init() {
	// Config file flag (processed first)
	parseCmd.Flags().StringVar(&parseConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	parseCmd.Flags().StringArrayVarP(&parseInputs, "in", "i", nil, "Résumé document to parse (repeatable)")
	parseCmd.Flags().StringVar(&parseURL, "url", "", "URL of a hosted HTML résumé")
	parseCmd.Flags().StringVar(&parseS3Key, "s3-key", "", "Object key of a résumé in S3_BUCKET")
	parseCmd.Flags().StringVarP(&parseOut, "out", "o", "", "Output directory (default: print JSON to stdout)")
	parseCmd.Flags().IntVarP(&parseWorkers, "workers", "w", 0, "Documents parsed concurrently (default 4)")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Save results to the database")
	parseCmd.Flags().BoolVar(&parseEnhance, "enhance", false, "Rewrite descriptions with Gemini")
	parseCmd.Flags().BoolVar(&parseUseBrowser, "use-browser", false, "Use headless browser for SPA résumé pages (requires Chrome)")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print detailed debug information")
	parseCmd.Flags().StringVar(&parseUserID, "user-id", "", "UUID of the user owning saved results")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	parseCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	parseCmd.Flags().StringVar(&parseDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(parseCmd)
}

// parseOutput is one element of the JSON printed for several documents
type parseOutput struct {
	Input    string              `json:"input"`
	ID       *uuid.UUID          `json:"id,omitempty"`
	Resume   *types.ParsedResume `json:"resume,omitempty"`
	Metadata *ingestion.Metadata `json:"metadata,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadParseConfig(cmd)
	if err != nil {
		return err
	}

	userID, err := cfg.ParsedUserID()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	opts := pipeline.Options{
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
		UserID:     userID,
	}
	if cfg.Verbose {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(stderr, "[%s] %s: %s\n", e.Step, e.Input, e.Message)
		}
	}

	if cfg.S3Key != "" {
		store, err := newS3Store(ctx)
		if err != nil {
			return err
		}
		opts.Store = store
	}

	if cfg.Save {
		database, err := connectDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		opts.Saver = database
		opts.Save = true
	}

	if cfg.Enhance {
		client, err := newLLMClient(ctx, cfg.APIKey)
		if err != nil {
			return err
		}
		defer client.Close() //nolint:errcheck
		opts.LLM = client
	}

	items := pipeline.RunBatch(ctx, parseInputsFor(cfg), opts, cfg.Workers)

	if err := writeParseResults(cmd.OutOrStdout(), stderr, cfg, items); err != nil {
		return err
	}

	if failed := pipeline.Failed(items); len(failed) > 0 {
		if len(items) == 1 {
			return failed[0].Err
		}
		return fmt.Errorf("%d of %d documents failed", len(failed), len(items))
	}
	return nil
}

// loadParseConfig merges the config file, explicitly set flags and defaults
func loadParseConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if parseConfigPath != "" {
		loaded, err := config.LoadConfig(parseConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("in") || flags.Changed("url") || flags.Changed("s3-key") {
		cfg.Inputs, cfg.URL, cfg.S3Key = parseInputs, parseURL, parseS3Key
	}
	if flags.Changed("out") {
		cfg.Out = parseOut
	}
	if flags.Changed("workers") {
		cfg.Workers = parseWorkers
	}
	if flags.Changed("save") {
		cfg.Save = parseSave
	}
	if flags.Changed("enhance") {
		cfg.Enhance = parseEnhance
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = parseUseBrowser
	}
	if flags.Changed("verbose") {
		cfg.Verbose = parseVerbose
	}
	if flags.Changed("user-id") {
		cfg.UserID = parseUserID
	}
	if flags.Changed("api-key") {
		cfg.APIKey = parseAPIKey
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = parseDatabaseURL
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})

	if len(cfg.Inputs) == 0 && cfg.URL == "" && cfg.S3Key == "" {
		return cfg, fmt.Errorf("one of --in, --url or --s3-key must be provided (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseInputsFor(cfg config.Config) []pipeline.Input {
	switch {
	case cfg.URL != "":
		return []pipeline.Input{{URL: cfg.URL}}
	case cfg.S3Key != "":
		return []pipeline.Input{{S3Key: cfg.S3Key}}
	default:
		return pipeline.FileInputs(cfg.Inputs...)
	}
}

// writeParseResults writes each successful result to its output directory,
// or prints JSON when no directory is set. Failures are reported on stderr.
func writeParseResults(stdout, stderr io.Writer, cfg config.Config, items []pipeline.BatchItem) error {
	printer := observability.NewPrinter(stderr)

	for i, item := range items {
		name := item.Input.Name()
		if item.Err != nil {
			_, _ = fmt.Fprintf(stderr, "✗ %s: %v\n", name, item.Err)
			continue
		}
		if cfg.Verbose {
			printer.PrintParsedResume(item.Result.Resume)
		}
		if item.Result.ResumeID != nil {
			_, _ = fmt.Fprintf(stderr, "Saved %s as %s\n", name, item.Result.ResumeID)
		}
		if cfg.Out == "" {
			continue
		}

		dir := cfg.Out
		if len(items) > 1 {
			dir = filepath.Join(cfg.Out, outputDirName(i, item.Input))
		}
		if err := ingestion.WriteOutput(dir, item.Result.Resume, item.Result.Metadata); err != nil {
			return fmt.Errorf("failed to write output for %s: %w", name, err)
		}
		_, _ = fmt.Fprintf(stderr, "✓ %s → %s\n", name, dir)
	}

	if cfg.Out != "" {
		return nil
	}
	return printJSON(stdout, jsonOutput(items))
}

// jsonOutput is the bare résumé for one document and a list otherwise
func jsonOutput(items []pipeline.BatchItem) any {
	if len(items) == 1 {
		if items[0].Err != nil {
			return nil
		}
		return items[0].Result.Resume
	}

	out := make([]parseOutput, len(items))
	for i, item := range items {
		out[i].Input = item.Input.Name()
		if item.Err != nil {
			out[i].Error = item.Err.Error()
			continue
		}
		out[i].ID = item.Result.ResumeID
		out[i].Resume = item.Result.Resume
		out[i].Metadata = item.Result.Metadata
	}
	return out
}

// outputDirName is "NN_<base name>", unique within a batch
func outputDirName(i int, in pipeline.Input) string {
	name := filepath.Base(in.Name())
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		name = string(in.Source())
	}
	return fmt.Sprintf("%02d_%s", i+1, name)
}

func printJSON(w io.Writer, v any) error {
	if v == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func newS3Store(ctx context.Context) (*storage.S3Store, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	if !env.S3Enabled() {
		return nil, fmt.Errorf("S3_BUCKET environment variable is required for --s3-key")
	}
	return storage.NewS3Store(ctx, env.S3Config())
}

func connectDatabase(ctx context.Context, databaseURL string) (*db.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func newLLMClient(ctx context.Context, apiKey string) (*llm.GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	return llm.NewGeminiClient(ctx, llm.ConfigFromEnv(), apiKey)
}
