package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allSchemas = []string{ParsedResume, ExperienceBank, SkillGap}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range allSchemas {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := Read(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.Equal(t, "object", schemaObj["type"])
			assert.Contains(t, schemaObj, "properties")
		})
	}
}

func TestParsedResumeSchema_RequiresEveryListField(t *testing.T) {
	data, err := Read(ParsedResume)
	require.NoError(t, err)

	var schemaObj struct {
		Required []string `json:"required"`
	}
	require.NoError(t, json.Unmarshal(data, &schemaObj))
	for _, field := range []string{"urls", "skills", "tools", "experience", "education", "projects", "certifications"} {
		assert.Contains(t, schemaObj.Required, field)
	}
}

func TestRead_Unknown(t *testing.T) {
	_, err := Read("missing.schema.json")
	assert.Error(t, err)
}

func TestHas(t *testing.T) {
	for _, name := range allSchemas {
		assert.True(t, Has(name), name)
	}
	assert.False(t, Has("missing.schema.json"))
	assert.False(t, Has("schemas.go"))
}
