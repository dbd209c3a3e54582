package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-markup/internal/types"
)

func strongResume() *types.ResumeRecord {
	return &types.ResumeRecord{
		ProfessionalSummary: strings.Repeat("Seasoned backend engineer. ", 3),
		WorkExperience: []types.WorkExperience{
			{JobTitle: "Senior Engineer", Company: "A", Responsibilities: []string{"a", "b", "c"}},
			{JobTitle: "Engineer", Company: "B", Achievements: []string{"d", "e"}},
		},
		Skills:    []types.Skill{{Name: "Go"}, {Name: "SQL"}, {Name: "AWS"}, {Name: "Kafka"}, {Name: "Docker"}},
		Education: []types.Education{{Institution: "MIT"}},
	}
}

func TestAssess_Complete(t *testing.T) {
	q := Assess(strongResume())
	assert.Equal(t, 100, q.Score)
	assert.Empty(t, q.Issues)
}

func TestAssess_Empty(t *testing.T) {
	q := Assess(&types.ResumeRecord{})
	// 100 - 40 - 30 - 35 - 15 - 10 floors at 0
	assert.Equal(t, 0, q.Score)
	assert.Len(t, q.Issues, 5)

	assert.Equal(t, 0, Assess(nil).Score)
}

func TestAssess_Deductions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *types.ResumeRecord)
		want   int
	}{
		{"one experience", func(r *types.ResumeRecord) {
			r.WorkExperience = r.WorkExperience[:1]
			r.Projects = []types.Project{{Highlights: []string{"x", "y"}}}
		}, 80},
		{"no experience", func(r *types.ResumeRecord) {
			r.WorkExperience = nil
			r.Projects = []types.Project{{Description: "p", Highlights: []string{"1", "2", "3", "4"}}}
		}, 60},
		{"few skills", func(r *types.ResumeRecord) { r.Skills = r.Skills[:2] }, 85},
		{"no skills", func(r *types.ResumeRecord) { r.Skills = nil }, 70},
		{"little content", func(r *types.ResumeRecord) {
			r.WorkExperience[0].Responsibilities = nil
		}, 80},
		{"short summary", func(r *types.ResumeRecord) { r.ProfessionalSummary = "Engineer." }, 85},
		{"no education", func(r *types.ResumeRecord) { r.Education = nil }, 90},
		{"blank skill names ignored", func(r *types.ResumeRecord) {
			r.Skills = []types.Skill{{Name: " "}, {Name: ""}}
		}, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strongResume()
			tt.mutate(r)
			q := Assess(r)
			assert.Equal(t, tt.want, q.Score)
			assert.Len(t, q.Issues, 1)
		})
	}
}

func TestAssess_ThinResumeScoresLow(t *testing.T) {
	// one job, one bullet, two skills, no summary or education
	r := &types.ResumeRecord{
		WorkExperience: []types.WorkExperience{{JobTitle: "Dev", Responsibilities: []string{"Wrote code"}}},
		Skills:         []types.Skill{{Name: "Python"}, {Name: "SQL"}},
	}
	q := Assess(r)
	assert.LessOrEqual(t, q.Score, 25)
	assert.Equal(t, 20, q.Score)
}

func TestAssess_AddingContentNeverLowersScore(t *testing.T) {
	r := &types.ResumeRecord{}
	prev := Assess(r).Score

	steps := []func(){
		func() { r.Skills = append(r.Skills, types.Skill{Name: "Go"}) },
		func() { r.WorkExperience = append(r.WorkExperience, types.WorkExperience{JobTitle: "Dev"}) },
		func() { r.WorkExperience[0].Achievements = []string{"Shipped v1"} },
		func() { r.Education = append(r.Education, types.Education{Degree: "BSc"}) },
		func() {
			r.WorkExperience = append(r.WorkExperience, types.WorkExperience{Company: "B", Description: "Built"})
		},
		func() {
			for _, n := range []string{"SQL", "AWS", "Kafka", "Redis"} {
				r.Skills = append(r.Skills, types.Skill{Name: n})
			}
		},
		func() { r.ProfessionalSummary = strings.Repeat("x", MinSummaryLength) },
		func() { r.Projects = append(r.Projects, types.Project{Highlights: []string{"a", "b", "c"}}) },
	}
	for i, step := range steps {
		step()
		score := Assess(r).Score
		assert.GreaterOrEqual(t, score, prev, "step %d", i)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, MaxScore)
		prev = score
	}
	assert.Equal(t, MaxScore, prev)
}

func TestAssessor_CustomWeights(t *testing.T) {
	w := DefaultWeights()
	w.NoEducation = 0
	r := strongResume()
	r.Education = nil
	assert.Equal(t, 100, Assessor{Weights: w}.Assess(r).Score)
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	w := DefaultWeights()
	w.FewSkills = -1
	assert.Error(t, w.Validate())
}

func TestContentItems(t *testing.T) {
	r := &types.ResumeRecord{
		WorkExperience: []types.WorkExperience{{Description: "d", Responsibilities: []string{"a", " "}, Achievements: []string{"b"}}},
		Projects:       []types.Project{{Description: "p", Highlights: []string{"h", ""}}},
	}
	assert.Equal(t, 5, ContentItems(r))
}
