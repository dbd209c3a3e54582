package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonalInfo_FullName(t *testing.T) {
	tests := []struct {
		name string
		info PersonalInfo
		want string
	}{
		{"both", PersonalInfo{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"first only", PersonalInfo{FirstName: " Ada "}, "Ada"},
		{"last only", PersonalInfo{LastName: "Lovelace"}, "Lovelace"},
		{"neither", PersonalInfo{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.FullName())
		})
	}
}

func TestJobRequirement_AllSkills(t *testing.T) {
	req := &JobRequirement{RequiredSkills: []string{"Go"}, PreferredSkills: []string{"SQL", "Redis"}}
	assert.Equal(t, []string{"Go", "SQL", "Redis"}, req.AllSkills())

	var nilReq *JobRequirement
	assert.Nil(t, nilReq.AllSkills())
}

func TestJobRequirement_IsEmpty(t *testing.T) {
	var nilReq *JobRequirement
	assert.True(t, nilReq.IsEmpty())
	assert.True(t, (&JobRequirement{ExperienceLevel: LevelMid}).IsEmpty())
	assert.False(t, (&JobRequirement{Keywords: []string{"latency"}}).IsEmpty())
	assert.False(t, (&JobRequirement{PreferredSkills: []string{"Go"}}).IsEmpty())
}

func TestViolation_OmitsZeroPosition(t *testing.T) {
	data, err := json.Marshal(Violation{Type: "unbalanced_braces", Severity: SeverityError, Details: "unclosed {"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "lineNumber")
	assert.NotContains(t, string(data), "column")

	data, err = json.Marshal(Violation{Type: "unescaped_character", LineNumber: 3, Column: 7})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lineNumber":3`)
	assert.Contains(t, string(data), `"column":7`)
}

func TestMatchResult_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(MatchResult{OverallMatch: 72, Mode: ModeAI, Confidence: ConfidenceHigh})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 72, decoded["overallMatch"])
	assert.Equal(t, "ai", decoded["mode"])
	assert.Equal(t, "high", decoded["confidence"])
	assert.NotContains(t, decoded, "failureReason")
}
