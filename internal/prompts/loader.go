// Package prompts holds the LLM prompt templates embedded in the binary.
// Each JSON file maps a prompt key to a text/template body.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"text/template"
)

// Enhancement is the prompt file used by résumé enhancement
const Enhancement = "enhancement.json"

//go:embed *.json
var promptFiles embed.FS

type prompt struct {
	text string
	tmpl *template.Template
}

// library is every embedded prompt, parsed once
type library struct {
	files map[string]map[string]prompt
}

var loadLibrary = sync.OnceValues(func() (*library, error) {
	return parseLibrary(promptFiles)
})

func parseLibrary(fsys fs.FS) (*library, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}

	lib := &library{files: make(map[string]map[string]prompt, len(names))}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}

		var raw map[string]string
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}

		prompts := make(map[string]prompt, len(raw))
		for key, body := range raw {
			tmpl, err := template.New(key).Option("missingkey=error").Parse(body)
			if err != nil {
				return nil, fmt.Errorf("invalid prompt %s/%s: %w", name, key, err)
			}
			prompts[key] = prompt{text: body, tmpl: tmpl}
		}
		lib.files[name] = prompts
	}
	return lib, nil
}

func (l *library) lookup(filename, key string) (prompt, error) {
	prompts, ok := l.files[filename]
	if !ok {
		return prompt{}, fmt.Errorf("prompt file %s not found", filename)
	}
	p, ok := prompts[key]
	if !ok {
		return prompt{}, fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return p, nil
}

// Get returns the unrendered body of a prompt, e.g. Get(Enhancement, "system").
func Get(filename, key string) (string, error) {
	lib, err := loadLibrary()
	if err != nil {
		return "", err
	}
	p, err := lib.lookup(filename, key)
	if err != nil {
		return "", err
	}
	return p.text, nil
}

// Render executes a prompt with data. Fields referenced by the prompt must
// exist in data.
func Render(filename, key string, data any) (string, error) {
	lib, err := loadLibrary()
	if err != nil {
		return "", err
	}
	p, err := lib.lookup(filename, key)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", filename, key, err)
	}
	return sb.String(), nil
}

// List returns the prompt keys in a file, sorted.
func List(filename string) ([]string, error) {
	lib, err := loadLibrary()
	if err != nil {
		return nil, err
	}
	prompts, ok := lib.files[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", filename)
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
