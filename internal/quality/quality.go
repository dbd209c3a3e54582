// Package quality scores the structural completeness of a resume. The score
// gates match confidence and is never shown to the end user on its own.
package quality

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-markup/internal/types"
)

// Calibration thresholds. Hand-tuned; retune against real data.
const (
	MaxScore           = 100
	MinSkills          = 5
	MinContentItems    = 5
	MinSummaryLength   = 50
	DefaultGateQuality = 70
)

// Weights are the deductions applied for each missing element
type Weights struct {
	NoExperience  int `mapstructure:"no_experience" json:"noExperience"`
	OneExperience int `mapstructure:"one_experience" json:"oneExperience"`
	NoSkills      int `mapstructure:"no_skills" json:"noSkills"`
	FewSkills     int `mapstructure:"few_skills" json:"fewSkills"`
	NoContent     int `mapstructure:"no_content" json:"noContent"`
	LittleContent int `mapstructure:"little_content" json:"littleContent"`
	WeakSummary   int `mapstructure:"weak_summary" json:"weakSummary"`
	NoEducation   int `mapstructure:"no_education" json:"noEducation"`
}

// DefaultWeights returns the standard deduction table
func DefaultWeights() Weights {
	return Weights{
		NoExperience:  40,
		OneExperience: 20,
		NoSkills:      30,
		FewSkills:     15,
		NoContent:     35,
		LittleContent: 20,
		WeakSummary:   15,
		NoEducation:   10,
	}
}

// Validate rejects negative deductions
func (w Weights) Validate() error {
	for name, v := range map[string]int{
		"no_experience":  w.NoExperience,
		"one_experience": w.OneExperience,
		"no_skills":      w.NoSkills,
		"few_skills":     w.FewSkills,
		"no_content":     w.NoContent,
		"little_content": w.LittleContent,
		"weak_summary":   w.WeakSummary,
		"no_education":   w.NoEducation,
	} {
		if v < 0 {
			return fmt.Errorf("quality weight %s must not be negative, got %d", name, v)
		}
	}
	return nil
}

// Assessor applies a deduction table
type Assessor struct {
	Weights Weights
}

// Assess scores r with the default weights
func Assess(r *types.ResumeRecord) types.ContentQuality {
	return Assessor{Weights: DefaultWeights()}.Assess(r)
}

// Assess starts at MaxScore and subtracts one deduction per missing element,
// flooring at zero. Each deduction adds one issue.
func (a Assessor) Assess(r *types.ResumeRecord) types.ContentQuality {
	if r == nil {
		r = &types.ResumeRecord{}
	}
	w := a.Weights
	score := MaxScore
	issues := make([]string, 0, 4)
	deduct := func(points int, issue string) {
		score -= points
		issues = append(issues, issue)
	}

	switch n := countExperience(r); {
	case n == 0:
		deduct(w.NoExperience, "No work experience listed")
	case n == 1:
		deduct(w.OneExperience, "Only one work experience entry")
	}

	switch n := countSkills(r); {
	case n == 0:
		deduct(w.NoSkills, "No skills listed")
	case n < MinSkills:
		deduct(w.FewSkills, fmt.Sprintf("Fewer than %d skills listed (%d)", MinSkills, n))
	}

	switch n := ContentItems(r); {
	case n == 0:
		deduct(w.NoContent, "No detailed descriptions, responsibilities or achievements")
	case n < MinContentItems:
		deduct(w.LittleContent, fmt.Sprintf("Fewer than %d detailed content items (%d)", MinContentItems, n))
	}

	if utf8.RuneCountInString(strings.TrimSpace(r.ProfessionalSummary)) < MinSummaryLength {
		deduct(w.WeakSummary, fmt.Sprintf("Professional summary missing or shorter than %d characters", MinSummaryLength))
	}

	if countEducation(r) == 0 {
		deduct(w.NoEducation, "No education listed")
	}

	if score < 0 {
		score = 0
	}
	return types.ContentQuality{Score: score, Issues: issues}
}

// ContentItems counts the non-blank detail strings across experience and
// projects: descriptions, responsibilities, achievements and highlights.
func ContentItems(r *types.ResumeRecord) int {
	n := 0
	for _, w := range r.WorkExperience {
		n += countText(w.Description)
		n += countTexts(w.Responsibilities)
		n += countTexts(w.Achievements)
	}
	for _, p := range r.Projects {
		n += countText(p.Description)
		n += countTexts(p.Highlights)
	}
	return n
}

func countExperience(r *types.ResumeRecord) int {
	n := 0
	for _, w := range r.WorkExperience {
		if strings.TrimSpace(w.JobTitle) != "" || strings.TrimSpace(w.Company) != "" ||
			strings.TrimSpace(w.Description) != "" || countTexts(w.Responsibilities) > 0 || countTexts(w.Achievements) > 0 {
			n++
		}
	}
	return n
}

func countSkills(r *types.ResumeRecord) int {
	n := 0
	for _, s := range r.Skills {
		n += countText(s.Name)
	}
	return n
}

func countEducation(r *types.ResumeRecord) int {
	n := 0
	for _, e := range r.Education {
		if strings.TrimSpace(e.Institution) != "" || strings.TrimSpace(e.Degree) != "" || strings.TrimSpace(e.FieldOfStudy) != "" {
			n++
		}
	}
	return n
}

func countText(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	return 1
}

func countTexts(items []string) int {
	n := 0
	for _, s := range items {
		n += countText(s)
	}
	return n
}
