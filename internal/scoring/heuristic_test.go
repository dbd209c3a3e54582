package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-markup/internal/types"
)

func TestSkillsMatch_CaseInsensitiveSubstring(t *testing.T) {
	score, matching, missing := SkillsMatch([]string{"python", "sql", "aws"}, []string{"Python", "SQL"})
	assert.Equal(t, 100, score)
	assert.Equal(t, []string{"Python", "SQL"}, matching)
	assert.Empty(t, missing)

	score, matching, missing = SkillsMatch([]string{"PostgreSQL", "Go"}, []string{"SQL", "Kubernetes", "Go"})
	assert.Equal(t, 67, score)
	assert.Equal(t, []string{"SQL", "Go"}, matching)
	assert.Equal(t, []string{"Kubernetes"}, missing)
}

func TestSkillsMatch_NoJobSkills(t *testing.T) {
	score, matching, missing := SkillsMatch([]string{"python"}, nil)
	assert.Equal(t, 0, score)
	assert.NotNil(t, matching)
	assert.NotNil(t, missing)
}

func TestExperienceMatch(t *testing.T) {
	tests := []struct {
		name  string
		years float64
		level types.ExperienceLevel
		has   bool
		want  int
	}{
		{"meets mid", 3, types.LevelMid, true, 80},
		{"over mid", 5, types.LevelMid, true, 84},
		{"far over senior", 20, types.LevelSenior, true, 100},
		{"half of senior", 3.5, types.LevelSenior, true, 40},
		{"floor", 1, types.LevelSenior, true, 40},
		{"proportional executive", 10, types.LevelExecutive, true, 67},
		{"no experience for mid", 0, types.LevelMid, false, 0},
		{"entry needs none", 0, types.LevelEntry, false, 80},
		{"unknown level is mid", 3, types.ExperienceLevel("wizard"), true, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExperienceMatch(tt.years, tt.level, tt.has))
		})
	}
}

func TestYearsOfExperience_MergesOverlaps(t *testing.T) {
	r := &types.ResumeRecord{WorkExperience: []types.WorkExperience{
		{StartDate: "01/2018", EndDate: "12/2019"},
		{StartDate: "06/2019", EndDate: "Present"},
		{StartDate: "sometime", EndDate: "later"},
		{StartDate: "01/2010"},
	}}

	// 01/2018 through 03/2024 is 75 months, plus one month for the open entry
	assert.InDelta(t, 76.0/12, YearsOfExperience(r, fixedNow), 1e-9)
}

func TestYearsOfExperience_FutureEndIsCapped(t *testing.T) {
	r := &types.ResumeRecord{WorkExperience: []types.WorkExperience{
		{StartDate: "03/2023", EndDate: "12/2030"},
	}}
	assert.InDelta(t, 13.0/12, YearsOfExperience(r, fixedNow), 1e-9)
	assert.Zero(t, YearsOfExperience(nil, fixedNow))
}

func TestKeywordAlignment(t *testing.T) {
	text := "built distributed systems with kafka"
	assert.Equal(t, 50, KeywordAlignment(text, []string{"Kafka", "observability"}))
	assert.Equal(t, 0, KeywordAlignment(text, nil))
}

func TestATSCompatibility(t *testing.T) {
	assert.Equal(t, 100, ATSCompatibility(fullResume(), 100))
	assert.Equal(t, 70, ATSCompatibility(fullResume(), 0))
	assert.Equal(t, 0, ATSCompatibility(nil, 100))
}

func TestResumeSkills_IncludesTechnologies(t *testing.T) {
	r := &types.ResumeRecord{
		Skills:         []types.Skill{{Name: "Go"}, {Name: " "}},
		WorkExperience: []types.WorkExperience{{Technologies: []string{"Kafka", ""}}},
		Projects:       []types.Project{{Technologies: []string{"React"}}},
	}
	assert.Equal(t, []string{"Go", "Kafka", "React"}, ResumeSkills(r))
}
