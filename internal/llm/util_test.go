package llm

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json code block", "```json\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"generic code block", "```\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"code block with language", "```javascript\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"plain JSON", `{"key": "value"}`, `{"key": "value"}`},
		{"preamble", "As requested, here is the JSON:\n{\"overallMatch\": 40}", `{"overallMatch": 40}`},
		{"trailing text", "{\"key\": \"value\"}\n\nLet me know if you need anything else!", `{"key": "value"}`},
		{"array", "Here are the items:\n[\"go\", \"sql\"]", `["go", "sql"]`},
		{"escaped quotes", "Result: {\"message\": \"He said \\\"hi\\\"\"}", `{"message": "He said \"hi\""}`},
		{"no json", "sorry, I cannot help", "sorry, I cannot help"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", `{"key": "value"}`, `{"key": "value"}`},
		{"nested", `{"outer": {"inner": "value"}}`, `{"outer": {"inner": "value"}}`},
		{"leading prose", `score: {"a": 1} done`, `{"a": 1}`},
		{"braces in strings", `{"template": "Hello {name}!"}`, `{"template": "Hello {name}!"}`},
		{"truncated runs to end", `{"overallMatch": 80, "skillsMatch": 70`, `{"overallMatch": 80, "skillsMatch": 70`},
		{"empty", "", ""},
		{"no brace", "not json", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[[1, 2], [3, 4]]`, extractJSONArray(`[[1, 2], [3, 4]] extra`))
	assert.Equal(t, `[{"id": 1}, {"id": 2}]`, extractJSONArray(`[{"id": 1}, {"id": 2}]`))
	assert.Equal(t, "", extractJSONArray("not array"))
	assert.Equal(t, "", extractJSONArray(`[1, 2`))
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"missing close brace", `{"overallMatch": 80, "skillsMatch": 70`, `{"overallMatch": 80, "skillsMatch": 70}`},
		{"trailing comma", `{"a": 1,`, `{"a": 1}`},
		{"open array", `{"missingSkills": ["aws", "k8s"`, `{"missingSkills": ["aws", "k8s"]}`},
		{"open string", `{"strongPoints": ["Led team`, `{"strongPoints": ["Led team"]}`},
		{"dangling key", `{"a": 1, "b":`, `{"a": 1, "b": null}`},
		{"brace inside string ignored", `{"t": "x{y", "n": 2`, `{"t": "x{y", "n": 2}`},
		{"already valid", `{"a": [1]}`, `{"a": [1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RepairJSON(tt.input))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		OverallMatch int `json:"overallMatch"`
		SkillsMatch  int `json:"skillsMatch"`
	}

	repaired, err := DecodeJSON("```json\n{\"overallMatch\": 55, \"skillsMatch\": 60}\n```", &out)
	require.NoError(t, err)
	assert.False(t, repaired)
	assert.Equal(t, 55, out.OverallMatch)

	repaired, err = DecodeJSON(`{"overallMatch": 80, "skillsMatch": 70`, &out)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, 80, out.OverallMatch)
	assert.Equal(t, 70, out.SkillsMatch)
}

func TestDecodeJSON_Unrecoverable(t *testing.T) {
	var out map[string]interface{}

	_, err := DecodeJSON("I am unable to score this resume.", &out)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)

	repaired, err := DecodeJSON(`{"overallMatch": eighty}`, &out)
	assert.True(t, repaired)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMalformed, ClassifyFailure(err))
}

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"ascii", "hello", 3, "hel"},
		{"inside two-byte rune", "aé", 2, "a"},
		{"after two-byte rune", "aéb", 3, "aé"},
		{"inside four-byte rune", "go🚀", 4, "go"},
		{"zero", "hello", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clip(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestDecodeJSON_RawExcerptIsValidUTF8(t *testing.T) {
	var out map[string]interface{}
	_, err := DecodeJSON("a"+strings.Repeat("é", 150), &out)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.True(t, utf8.ValidString(perr.Raw))
	assert.True(t, strings.HasSuffix(perr.Raw, "..."))
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureReason
	}{
		{"nil", nil, ""},
		{"quota http", &googleapi.Error{Code: 429, Message: "Quota exceeded for requests per day"}, ReasonQuota},
		{"rate limit http", &googleapi.Error{Code: 429, Message: "slow down"}, ReasonRateLimit},
		{"unauthorized http", &googleapi.Error{Code: 401}, ReasonInvalidKey},
		{"bad key http", &googleapi.Error{Code: 400, Message: "API key not valid. Please pass a valid API key."}, ReasonInvalidKey},
		{"server error http", &googleapi.Error{Code: 503}, ReasonUnavailable},
		{"grpc quota", errors.New("rpc error: code = ResourceExhausted desc = You exceeded your current quota"), ReasonQuota},
		{"grpc exhausted", errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"), ReasonRateLimit},
		{"grpc status quota", status.Error(codes.ResourceExhausted, "Quota exceeded for model"), ReasonQuota},
		{"grpc status rate limit", status.Error(codes.ResourceExhausted, "slow down"), ReasonRateLimit},
		{"grpc status permission", status.Error(codes.PermissionDenied, "caller lacks access"), ReasonInvalidKey},
		{"grpc status unauthenticated", status.Error(codes.Unauthenticated, "no credentials"), ReasonInvalidKey},
		{"grpc status bad key", status.Error(codes.InvalidArgument, "API key not valid"), ReasonInvalidKey},
		{"grpc status bad request", status.Error(codes.InvalidArgument, "prompt too long"), ReasonUnavailable},
		{"grpc status unavailable", status.Error(codes.Unavailable, "backend down"), ReasonUnavailable},
		{"wrapped grpc status", fmt.Errorf("judge: %w", status.Error(codes.ResourceExhausted, "slow down")), ReasonRateLimit},
		{"invalid key text", errors.New("rpc error: code = InvalidArgument desc = API key not valid"), ReasonInvalidKey},
		{"wrapped", fmt.Errorf("scoring: %w", errors.New("too many requests")), ReasonRateLimit},
		{"unknown", errors.New("connection reset by peer"), ReasonUnavailable},
		{"provider error keeps reason", &ProviderError{Reason: ReasonQuota, Cause: errors.New("x")}, ReasonQuota},
		{"parse error", &ParseError{Message: "bad"}, ReasonMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err))
		})
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt(JobRequirementsSchema("You parse job postings."), "<job>Go engineer</job>")

	assert.Contains(t, prompt, "You parse job postings.")
	assert.Contains(t, prompt, `"requiredSkills": ["string"] (required)`)
	assert.Contains(t, prompt, `"experienceLevel": "entry" | "mid" | "senior" | "executive"`)
	assert.Contains(t, prompt, "<job>Go engineer</job>")
}
