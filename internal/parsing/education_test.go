package parsing

import (
	"testing"

	"github.com/jonathan/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestReconstructEducation(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []types.EducationEntry
	}{
		{
			name:  "Institution, degree and year across lines",
			lines: []string{"Stanford University", "Bachelor of Science in Computer Science", "Graduated 2019"},
			expected: []types.EducationEntry{{
				Institution: "Stanford University",
				Degree:      "Bachelor",
				Field:       "Science in Computer Science",
				Year:        intPtr(2019),
			}},
		},
		{
			name:  "Single line record",
			lines: []string{"B.Tech in Computer Science, XYZ Institute of Technology, 2020"},
			expected: []types.EducationEntry{{
				Institution: "XYZ Institute of Technology",
				Degree:      "B.Tech",
				Field:       "Computer Science",
				Year:        intPtr(2020),
			}},
		},
		{
			name: "Second institution opens a new entry",
			lines: []string{
				"Massachusetts Institute of Technology",
				"Master of Science, 2021",
				"University of Texas",
				"Bachelor of Arts in Economics",
				"2015 - 2019",
			},
			expected: []types.EducationEntry{
				{Institution: "Massachusetts Institute of Technology", Degree: "Master", Field: "Science", Year: intPtr(2021)},
				{Institution: "University of Texas", Degree: "Bachelor", Field: "Arts in Economics", Year: intPtr(2019)},
			},
		},
		{
			name:  "Grade tail is dropped from field",
			lines: []string{"Bachelor of Engineering in Mechanical Engineering, CGPA 8.7/10"},
			expected: []types.EducationEntry{{
				Degree: "Bachelor",
				Field:  "Engineering in Mechanical Engineering",
			}},
		},
		{
			name:     "Lines without institution or degree",
			lines:    []string{"Relevant coursework in algorithms", "Dean's list 2018"},
			expected: []types.EducationEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ReconstructEducation(tt.lines)
			assert.NotNil(t, result)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestReconstructEducation_DegreeMatchesBachelor(t *testing.T) {
	result := ReconstructEducation([]string{"Stanford University", "Bachelor of Science in Computer Science", "Graduated 2019"})

	require.Len(t, result, 1)
	assert.Regexp(t, `(?i)bachelor`, result[0].Degree)
	assert.Contains(t, result[0].Field, "Science in Computer Science")
	require.NotNil(t, result[0].Year)
	assert.Equal(t, 2019, *result[0].Year)
}
