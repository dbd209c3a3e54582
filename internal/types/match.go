//nolint:revive // types is a standard Go package name pattern
package types

// ScoringMode records which scoring strategy produced a result
type ScoringMode string

// Scoring modes
const (
	ModeAI       ScoringMode = "ai"
	ModeFallback ScoringMode = "fallback"
)

// Confidence is the caller-facing trust level of a match result
type Confidence string

// Confidence levels
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// MatchResult is the outcome of scoring a resume against a job.
// All scores are 0-100 and already capped by content quality.
type MatchResult struct {
	OverallMatch     int               `json:"overallMatch"`
	SkillsMatch      int               `json:"skillsMatch"`
	ExperienceMatch  int               `json:"experienceMatch"`
	KeywordAlignment int               `json:"keywordAlignment"`
	ATSCompatibility int               `json:"atsCompatibility"`
	MatchingSkills   []string          `json:"matchingSkills"`
	MissingSkills    []string          `json:"missingSkills"`
	StrongPoints     []string          `json:"strongPoints"`
	Recommendations  []string          `json:"recommendations"`
	Mode             ScoringMode       `json:"mode"`
	Confidence       Confidence        `json:"confidence"`
	ContentQuality   int               `json:"contentQuality"`
	QualityIssues    []string          `json:"qualityIssues,omitempty"`
	FailureReason    string            `json:"failureReason,omitempty"`
	ProviderFailures []ProviderFailure `json:"providerFailures,omitempty"`
}

// ProviderFailure describes one failed AI call
type ProviderFailure struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Reason   string `json:"reason"`
	Message  string `json:"message,omitempty"`
}

// ContentQuality is the structural completeness of a resume, independent of any job
type ContentQuality struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

// Change kinds reported by the suggestion diff
const (
	ChangeAdded    = "added"
	ChangeRemoved  = "removed"
	ChangeModified = "modified"
)

// Suggestion explains one difference between an original and an optimized resume
type Suggestion struct {
	Section   string `json:"section"`
	Field     string `json:"field"`
	Type      string `json:"type"`
	Original  any    `json:"original"`
	Suggested any    `json:"suggested"`
	Reason    string `json:"reason"`
}
