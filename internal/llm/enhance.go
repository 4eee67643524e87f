package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/types"
	"golang.org/x/sync/errgroup"
)

// Entry kinds passed to the enhancement prompt
const (
	EntryKindExperience = "experience"
	EntryKindProject    = "project"
)

// maxConcurrentRewrites bounds in-flight LLM calls per résumé
const maxConcurrentRewrites = 4

// EnhanceOptions configures EnhanceResume
type EnhanceOptions struct {
	Tier    ModelTier
	Verbose bool
}

// EnhanceStats reports what EnhanceResume did
type EnhanceStats struct {
	Rewritten int `json:"rewritten"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

type enhancementResponse struct {
	Description string `json:"description"`
}

// entryPrompt fills the enhance-entry prompt
type entryPrompt struct {
	System      string
	Kind        string
	Heading     string
	Description string
}

type rewriteTarget struct {
	kind    string
	heading string
	text    *string
}

// EnhanceResume rewrites experience and project descriptions into concise,
// bullet-ready prose. It returns a copy; resume is never modified. Entries
// whose call fails keep their original description. The error is non-nil only
// when the prompt cannot be loaded or ctx ends.
func EnhanceResume(ctx context.Context, client Client, resume *types.ParsedResume, opts EnhanceOptions) (*types.ParsedResume, *EnhanceStats, error) {
	if client == nil {
		return nil, nil, errors.New("llm client is required")
	}
	if resume == nil {
		return nil, nil, errors.New("resume is required")
	}
	if opts.Tier == "" {
		opts.Tier = TierLite
	}

	system, err := prompts.Get(prompts.Enhancement, "system")
	if err != nil {
		return nil, nil, err
	}

	out := resume.Clone()
	stats := &EnhanceStats{}
	targets := collectTargets(out, stats)

	results := make([]string, len(targets))
	failed := make([]bool, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRewrites)
	for i, target := range targets {
		g.Go(func() error {
			prompt, err := prompts.Render(prompts.Enhancement, "enhance-entry", entryPrompt{
				System:      system,
				Kind:        target.kind,
				Heading:     target.heading,
				Description: *target.text,
			})
			if err != nil {
				return err
			}
			rewritten, err := rewriteEntry(gctx, client, prompt, opts.Tier)
			if err != nil {
				if opts.Verbose {
					log.Printf("[VERBOSE] [llm] keeping original %s %q: %v", target.kind, target.heading, err)
				}
				failed[i] = true
				return nil
			}
			results[i] = rewritten
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("enhancement interrupted: %w", err)
	}

	for i, target := range targets {
		if failed[i] {
			stats.Failed++
			continue
		}
		*target.text = results[i]
		stats.Rewritten++
	}

	if opts.Verbose {
		log.Printf("[VERBOSE] [llm] enhanced %d entries (%d failed, %d skipped)", stats.Rewritten, stats.Failed, stats.Skipped)
	}
	return out, stats, nil
}

// collectTargets returns pointers into r for every non-empty description
func collectTargets(r *types.ParsedResume, stats *EnhanceStats) []rewriteTarget {
	var targets []rewriteTarget
	for i := range r.Experience {
		entry := &r.Experience[i]
		if strings.TrimSpace(entry.Description) == "" {
			stats.Skipped++
			continue
		}
		targets = append(targets, rewriteTarget{
			kind:    EntryKindExperience,
			heading: joinHeading(entry.Role, entry.Company),
			text:    &entry.Description,
		})
	}
	for i := range r.Projects {
		entry := &r.Projects[i]
		if strings.TrimSpace(entry.Description) == "" {
			stats.Skipped++
			continue
		}
		targets = append(targets, rewriteTarget{
			kind:    EntryKindProject,
			heading: entry.Title,
			text:    &entry.Description,
		})
	}
	return targets
}

func rewriteEntry(ctx context.Context, client Client, prompt string, tier ModelTier) (string, error) {
	raw, err := client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return "", err
	}

	var resp enhancementResponse
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &resp); err != nil {
		return "", fmt.Errorf("failed to parse enhancement response: %w", err)
	}

	description := strings.Join(strings.Fields(resp.Description), " ")
	if description == "" {
		return "", errors.New("empty description in enhancement response")
	}
	return description, nil
}

func joinHeading(role, company string) string {
	switch {
	case role != "" && company != "":
		return role + " at " + company
	case role != "":
		return role
	default:
		return company
	}
}
