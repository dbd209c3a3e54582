package prompts

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("scoring.json", "match-judgment")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Score harshly")
	assert.Contains(t, prompt, "{{.Resume}}")

	_, err = Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prompt file")

	_, err = Get("scoring.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	assert.NotEmpty(t, MustGet("analysis.json", "extract-job-requirements"))
	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "all markers",
			template: "Job: {{.Job}}\nResume: {{.Resume}}",
			data:     map[string]string{"Job": "Go engineer", "Resume": "Ada, 10 years of Go"},
			want:     "Job: Go engineer\nResume: Ada, 10 years of Go",
		},
		{
			name:     "no markers",
			template: "No placeholders here",
			data:     map[string]string{"Key": "Value"},
			want:     "No placeholders here",
		},
		{
			name:     "missing value is kept",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			want:     "Hello {{.Name}}",
		},
		{
			name:     "values are not re-expanded",
			template: "{{.A}} {{.B}}",
			data:     map[string]string{"A": "{{.B}}", "B": "b"},
			want:     "{{.B}} b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestFill(t *testing.T) {
	data := map[string]string{"Requirements": "Go", "Job": "posting", "Resume": "resume"}
	out, err := Fill("scoring.json", "match-judgment", data)
	require.NoError(t, err)
	assert.NotContains(t, out, "{{.")
	assert.Contains(t, out, "posting")

	delete(data, "Resume")
	_, err = Fill("scoring.json", "match-judgment", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resume")
}

func TestList(t *testing.T) {
	keys, err := List("analysis.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"extract-job-requirements"}, keys)

	_, err = List("nonexistent.json")
	assert.Error(t, err)
}

func TestReadCatalogue(t *testing.T) {
	c, err := readCatalogue(fstest.MapFS{
		"a.json": {Data: []byte(`{"one": "1", "two": "2"}`)},
		"b.json": {Data: []byte(`{}`)},
	})
	require.NoError(t, err)
	assert.Equal(t, "2", c["a.json"]["two"])
	assert.Empty(t, c["b.json"])

	_, err = readCatalogue(fstest.MapFS{"bad.json": {Data: []byte(`[1, 2]`)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse prompt file bad.json")
}
