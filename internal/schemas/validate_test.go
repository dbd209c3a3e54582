package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemasCompile(t *testing.T) {
	for _, name := range []string{Resume, MatchResponse, JobRequirement} {
		t.Run(name, func(t *testing.T) {
			_, err := load(name)
			require.NoError(t, err)
		})
	}

	_, err := load("missing.schema.json")
	var lerr *SchemaLoadError
	assert.ErrorAs(t, err, &lerr)
}

func TestValidateResume(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"minimal", `{}`, true},
		{"typical", `{"personalInfo":{"firstName":"Ada","email":"ada@example.com"},"skills":["Go"],"workExperience":[{"jobTitle":"Engineer"}]}`, true},
		{"scalar collection", `{"skills":"Go","education":{"institution":"MIT"}}`, true},
		{"null collections", `{"projects":null,"personalInfo":null}`, true},
		{"top level array", `[1,2]`, false},
		{"personal info string", `{"personalInfo":"Ada"}`, false},
		{"numeric skills", `{"skills":42}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResume([]byte(tt.doc))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Errors)
		})
	}
}

func TestValidateMatchResponse(t *testing.T) {
	ok := map[string]interface{}{
		"overallMatch":   72.0,
		"skillsMatch":    "80",
		"matchingSkills": []interface{}{"Go"},
	}
	assert.NoError(t, ValidateMatchResponse(ok))

	missing := map[string]interface{}{"skillsMatch": 50.0}
	err := ValidateMatchResponse(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overallMatch")

	wrongList := map[string]interface{}{"overallMatch": 10.0, "missingSkills": []interface{}{1.0}}
	assert.Error(t, ValidateMatchResponse(wrongList))
}

func TestValidateJobRequirement(t *testing.T) {
	assert.NoError(t, ValidateJobRequirement(map[string]interface{}{
		"requiredSkills":  []interface{}{"Go", "SQL"},
		"experienceLevel": "senior",
		"keywords":        "payments",
	}))
	assert.Error(t, ValidateJobRequirement(map[string]interface{}{"experienceLevel": 7.0}))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`
	assert.NoError(t, ValidateJSONString(schema, `{"name":"classic"}`))

	err := ValidateJSONString(schema, `{"name":3}`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Errors[0].Field)

	err = ValidateJSONString(`{"type":`, `{}`)
	var lerr *SchemaLoadError
	assert.ErrorAs(t, err, &lerr)
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "s.json")
	docPath := filepath.Join(dir, "d.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type":"object","required":["id"]}`), 0o644))
	require.NoError(t, os.WriteFile(docPath, []byte(`{"id":"x"}`), 0o644))
	assert.NoError(t, ValidateFile(schemaPath, docPath))

	require.NoError(t, os.WriteFile(docPath, []byte(`{}`), 0o644))
	assert.Error(t, ValidateFile(schemaPath, docPath))
}
