package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/resume-markup/internal/jobanalysis"
	"github.com/jonathan/resume-markup/internal/normalize"
	"github.com/jonathan/resume-markup/internal/types"
)

// RequiredYears is the years of experience expected per seniority tier
var RequiredYears = map[types.ExperienceLevel]float64{
	types.LevelEntry:     0,
	types.LevelMid:       3,
	types.LevelSenior:    7,
	types.LevelExecutive: 12,
}

// Fallback blend of the overall score
const (
	skillsShare     = 0.6
	experienceShare = 0.4

	maxSkillRecommendations = 5
)

// heuristic scores without the AI collaborator
func (e *Engine) heuristic(r *types.ResumeRecord, jobText string, req *types.JobRequirement) *types.MatchResult {
	jobSkills := req.AllSkills()
	if len(jobSkills) == 0 {
		jobSkills = jobanalysis.DetectSkills(jobText)
	}

	skills, matching, missing := SkillsMatch(ResumeSkills(r), jobSkills)
	level := req.ExperienceLevel
	if _, ok := RequiredYears[level]; !ok {
		level = types.LevelMid
	}
	years := YearsOfExperience(r, e.now())
	experience := ExperienceMatch(years, level, countPositions(r) > 0)

	text := strings.ToLower(ResumeText(r))
	keywords := KeywordAlignment(text, keywordTargets(req, jobSkills))
	ats := ATSCompatibility(r, keywords)

	overall := int(math.Round(skillsShare*float64(skills) + experienceShare*float64(experience)))

	result := &types.MatchResult{
		OverallMatch:     overall,
		SkillsMatch:      skills,
		ExperienceMatch:  experience,
		KeywordAlignment: keywords,
		ATSCompatibility: ats,
		MatchingSkills:   matching,
		MissingSkills:    missing,
		Mode:             types.ModeFallback,
	}

	if len(matching) > 0 {
		result.StrongPoints = append(result.StrongPoints,
			fmt.Sprintf("Matches %d of %d job skills", len(matching), len(jobSkills)))
	}
	required := RequiredYears[level]
	if years > 0 && years >= required {
		result.StrongPoints = append(result.StrongPoints,
			fmt.Sprintf("%.1f years of experience meets the %s level", years, level))
	}

	for i, s := range missing {
		if i == maxSkillRecommendations {
			break
		}
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Add evidence of %s experience if you have it", s))
	}
	if years < required {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("The role expects about %.0f years of experience; highlight the scope of your work", required))
	}
	if len(jobSkills) == 0 {
		result.Recommendations = append(result.Recommendations,
			"No skills could be identified in the job description; skills match is 0")
	}
	if keywords < 50 && len(req.Keywords) > 0 {
		result.Recommendations = append(result.Recommendations,
			"Mirror more of the job description's terminology in your experience bullets")
	}
	return result
}

// SkillsMatch counts job skills appearing as a case-insensitive substring of
// any resume skill. It returns the percentage plus matched and missing job
// skills in job order.
func SkillsMatch(resumeSkills, jobSkills []string) (score int, matching, missing []string) {
	matching = []string{}
	missing = []string{}
	if len(jobSkills) == 0 {
		return 0, matching, missing
	}
	lowered := make([]string, len(resumeSkills))
	for i, s := range resumeSkills {
		lowered[i] = strings.ToLower(s)
	}
	for _, js := range jobSkills {
		needle := strings.ToLower(strings.TrimSpace(js))
		if needle == "" {
			continue
		}
		found := false
		for _, rs := range lowered {
			if strings.Contains(rs, needle) {
				found = true
				break
			}
		}
		if found {
			matching = append(matching, js)
		} else {
			missing = append(missing, js)
		}
	}
	total := len(matching) + len(missing)
	if total == 0 {
		return 0, matching, missing
	}
	return int(math.Round(float64(len(matching)) / float64(total) * 100)), matching, missing
}

// ExperienceMatch compares years worked against the tier requirement.
// Meeting it scores 80 plus 2 per extra year, capped at 100. Falling short
// earns proportional credit with a floor of 40 when there is any experience.
func ExperienceMatch(years float64, level types.ExperienceLevel, hasExperience bool) int {
	required, ok := RequiredYears[level]
	if !ok {
		required = RequiredYears[types.LevelMid]
	}
	if years >= required {
		return int(math.Round(math.Min(100, 80+2*(years-required))))
	}
	if !hasExperience {
		return 0
	}
	return int(math.Round(math.Max(40, years/required*80)))
}

// YearsOfExperience sums the months covered by work experience, counting
// overlapping positions once. Entries without a parseable start are ignored;
// an entry with no end that is not current counts as a single month.
func YearsOfExperience(r *types.ResumeRecord, now time.Time) float64 {
	if r == nil {
		return 0
	}
	type span struct{ from, to int }
	monthIndex := func(t time.Time) int { return t.Year()*12 + int(t.Month()) - 1 }
	current := monthIndex(now)

	spans := make([]span, 0, len(r.WorkExperience))
	for _, w := range r.WorkExperience {
		start, ok := normalize.ParseMonthYear(w.StartDate)
		if !ok {
			continue
		}
		from := monthIndex(start)
		to := from + 1
		switch end, ok := normalize.ParseMonthYear(w.EndDate); {
		case w.IsCurrent || normalize.IsPresent(w.EndDate):
			to = current + 1
		case ok:
			to = monthIndex(end) + 1
		}
		if to > current+1 {
			to = current + 1
		}
		if to > from {
			spans = append(spans, span{from, to})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].from < spans[j].from })

	months := 0
	for i := 0; i < len(spans); {
		from, to := spans[i].from, spans[i].to
		j := i + 1
		for ; j < len(spans) && spans[j].from <= to; j++ {
			if spans[j].to > to {
				to = spans[j].to
			}
		}
		months += to - from
		i = j
	}
	return float64(months) / 12
}

// KeywordAlignment is the percentage of targets found in the lower-cased
// resume text
func KeywordAlignment(resumeText string, targets []string) int {
	if len(targets) == 0 {
		return 0
	}
	hits := 0
	for _, k := range targets {
		if strings.Contains(resumeText, strings.ToLower(k)) {
			hits++
		}
	}
	return int(math.Round(float64(hits) / float64(len(targets)) * 100))
}

// ATSCompatibility rates how parseable and discoverable a resume is: a
// structural checklist blended with keyword alignment
func ATSCompatibility(r *types.ResumeRecord, keywordAlignment int) int {
	if r == nil {
		return 0
	}
	structure := 0
	if strings.TrimSpace(r.PersonalInfo.Email) != "" {
		structure += 15
	}
	if strings.TrimSpace(r.PersonalInfo.Phone) != "" {
		structure += 10
	}
	if strings.TrimSpace(r.ProfessionalSummary) != "" {
		structure += 15
	}
	for _, w := range r.WorkExperience {
		if strings.TrimSpace(w.JobTitle) != "" && strings.TrimSpace(w.StartDate) != "" {
			structure += 25
			break
		}
	}
	if len(ResumeSkills(r)) > 0 {
		structure += 20
	}
	if len(r.Education) > 0 {
		structure += 15
	}
	return int(math.Round(0.7*float64(structure) + 0.3*float64(keywordAlignment)))
}

// ResumeSkills collects skill names plus technologies listed on positions
// and projects
func ResumeSkills(r *types.ResumeRecord) []string {
	if r == nil {
		return []string{}
	}
	out := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		if name := strings.TrimSpace(s.Name); name != "" {
			out = append(out, name)
		}
	}
	for _, w := range r.WorkExperience {
		out = append(out, nonBlank(w.Technologies)...)
	}
	for _, p := range r.Projects {
		out = append(out, nonBlank(p.Technologies)...)
	}
	return out
}

// ResumeText flattens the scoring-relevant parts of a resume into plain text
func ResumeText(r *types.ResumeRecord) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	write := func(parts ...string) {
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				sb.WriteString(p)
				sb.WriteByte('\n')
			}
		}
	}

	write(r.PersonalInfo.ProfessionalTitle, r.ProfessionalSummary)
	for _, w := range r.WorkExperience {
		write(w.JobTitle, w.Company, w.Description)
		write(w.Responsibilities...)
		write(w.Achievements...)
		write(w.Technologies...)
	}
	for _, p := range r.Projects {
		write(p.Name, p.Description)
		write(p.Highlights...)
		write(p.Technologies...)
	}
	for _, ed := range r.Education {
		write(ed.Degree, ed.FieldOfStudy)
	}
	for _, c := range r.Certifications {
		write(c.Name)
	}
	write(ResumeSkills(r)...)
	return sb.String()
}

// keywordTargets prefers explicit keywords and falls back to the job skills
func keywordTargets(req *types.JobRequirement, jobSkills []string) []string {
	if len(req.Keywords) > 0 {
		return req.Keywords
	}
	return jobSkills
}

func hasContent(r *types.ResumeRecord) bool {
	return r != nil && (strings.TrimSpace(ResumeText(r)) != "" || r.PersonalInfo.FullName() != "")
}

func countPositions(r *types.ResumeRecord) int {
	if r == nil {
		return 0
	}
	return len(r.WorkExperience)
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
