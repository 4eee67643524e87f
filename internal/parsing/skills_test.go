package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkill(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"react to React", "react", "React"},
		{"ReactJS to React", "ReactJS", "React"},
		{"Golang to Go", " golang ", "Go"},
		{"K8S to Kubernetes", "K8S", "Kubernetes"},
		{"JS to JavaScript", "JS", "JavaScript"},
		{"Symbol token", "c++", "C++"},
		{"Dotted token", "NODEJS", "Node.js"},
		{"Postgres to PostgreSQL", "postgres", "PostgreSQL"},
		{"Multi-word known skill", "distributed systems", "Distributed Systems"},
		{"Unknown stays trimmed", "  Quantum Basketweaving ", "Quantum Basketweaving"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkill(tt.input))
		})
	}
}

func TestIsKnownSkill(t *testing.T) {
	assert.True(t, IsKnownSkill("ReactJS"))
	assert.True(t, IsKnownSkill(" C# "))
	assert.False(t, IsKnownSkill("Basketweaving"))
	assert.False(t, IsKnownSkill(""))
}

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"Collapses variants to one canonical entry", []string{"react", "ReactJS", "REACT"}, []string{"React"}},
		{
			name:     "Keeps first-seen order",
			input:    []string{"Python", "js", "JavaScript", "unknown thing", "Unknown Thing"},
			expected: []string{"Python", "JavaScript", "unknown thing"},
		},
		{"Drops blanks", []string{"", "  ", "Docker"}, []string{"Docker"}},
		{"Nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeSkills(tt.input)
			assert.NotNil(t, result)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractSkillsFromText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		candidates []string
		expected   []string
	}{
		{
			name:     "Ordered by first occurrence",
			text:     "Built services in Golang and C++ with PostgreSQL.",
			expected: []string{"Go", "C++", "PostgreSQL"},
		},
		{
			name:     "Symbol-bearing tokens",
			text:     "Experience with C#, .NET and Node.js",
			expected: []string{"C#", ".NET", "Node.js"},
		},
		{
			name:     "No matches inside longer words",
			text:     "Javascripting reactive htmlish",
			expected: []string{},
		},
		{
			name:     "Dotted form beats its prefix",
			text:     "react.js vs vue",
			expected: []string{"React", "Vue"},
		},
		{
			name:     "Variants deduplicate",
			text:     "k8s and Kubernetes clusters",
			expected: []string{"Kubernetes"},
		},
		{
			name:       "Explicit candidates",
			text:       "We use Kotlin and Swift",
			candidates: []string{"swift", "rust"},
			expected:   []string{"Swift"},
		},
		{
			name:     "Empty text",
			text:     "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractSkillsFromText(tt.text, tt.candidates...)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractSkillsFromText_Deterministic(t *testing.T) {
	text := "Python, Django, Docker, AWS, React and TypeScript on Kubernetes"
	first := ExtractSkillsFromText(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExtractSkillsFromText(text))
	}
}
