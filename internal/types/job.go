//nolint:revive // types is a standard Go package name pattern
package types

// ExperienceLevel is the seniority tier a job asks for
type ExperienceLevel string

// Experience tiers, in ascending order of required years
const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelExecutive ExperienceLevel = "executive"
)

// Requirement sources
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// JobRequirement is the structured requirement set derived from a job posting.
// It is recomputed per request and never persisted.
type JobRequirement struct {
	Title            string          `json:"title,omitempty"`
	Company          string          `json:"company,omitempty"`
	RequiredSkills   []string        `json:"requiredSkills"`
	PreferredSkills  []string        `json:"preferredSkills"`
	ExperienceLevel  ExperienceLevel `json:"experienceLevel"`
	Responsibilities []string        `json:"responsibilities"`
	Qualifications   []string        `json:"qualifications"`
	Keywords         []string        `json:"keywords"`
	Source           string          `json:"source,omitempty"`
}

// AllSkills returns required skills followed by preferred skills
func (j *JobRequirement) AllSkills() []string {
	if j == nil {
		return nil
	}
	out := make([]string, 0, len(j.RequiredSkills)+len(j.PreferredSkills))
	out = append(out, j.RequiredSkills...)
	out = append(out, j.PreferredSkills...)
	return out
}

// IsEmpty reports whether the requirement set carries nothing to match against
func (j *JobRequirement) IsEmpty() bool {
	return j == nil || (len(j.RequiredSkills) == 0 && len(j.PreferredSkills) == 0 &&
		len(j.Responsibilities) == 0 && len(j.Qualifications) == 0 && len(j.Keywords) == 0)
}
