package scoring

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/resume-markup/internal/llm"
	"github.com/jonathan/resume-markup/internal/prompts"
	"github.com/jonathan/resume-markup/internal/schemas"
	"github.com/jonathan/resume-markup/internal/types"
	"github.com/jonathan/resume-markup/internal/validation"
)

const (
	promptFile = "scoring.json"
	promptKey  = "match-judgment"
)

// judge asks the AI collaborator for a match judgment. Sub-scores the model
// omits are taken from the heuristic result.
func (e *Engine) judge(ctx context.Context, r *types.ResumeRecord, jobText string, req *types.JobRequirement, heuristic *types.MatchResult) (*types.MatchResult, error) {
	prompt, err := e.buildJudgePrompt(r, jobText, req)
	if err != nil {
		return nil, err
	}

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	var decoded map[string]interface{}
	repaired, err := llm.DecodeJSON(raw, &decoded)
	if repaired {
		e.log.Debug("repaired match judgment response", map[string]interface{}{"ok": err == nil})
	}
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateMatchResponse(decoded); err != nil {
		return nil, &llm.ParseError{Message: "match judgment has unexpected shape", Cause: err}
	}

	overall, ok := scoreValue(decoded["overallMatch"])
	if !ok {
		return nil, &llm.ParseError{Message: "overallMatch is not a number", Raw: truncateRaw(raw)}
	}
	sub := func(key string, fallback int) int {
		if v, ok := scoreValue(decoded[key]); ok {
			return v
		}
		return fallback
	}

	return &types.MatchResult{
		OverallMatch:     overall,
		SkillsMatch:      sub("skillsMatch", heuristic.SkillsMatch),
		ExperienceMatch:  sub("experienceMatch", heuristic.ExperienceMatch),
		KeywordAlignment: sub("keywordAlignment", heuristic.KeywordAlignment),
		ATSCompatibility: sub("atsCompatibility", heuristic.ATSCompatibility),
		MatchingSkills:   stringList(decoded["matchingSkills"]),
		MissingSkills:    stringList(decoded["missingSkills"]),
		StrongPoints:     stringList(decoded["strongPoints"]),
		Recommendations:  stringList(decoded["improvements"]),
		Mode:             types.ModeAI,
	}, nil
}

// buildJudgePrompt fills the rubric prompt. Resume and job text are quoted so
// the model treats them as data.
func (e *Engine) buildJudgePrompt(r *types.ResumeRecord, jobText string, req *types.JobRequirement) (string, error) {
	job := strings.TrimSpace(jobText)
	if job == "" {
		job = "Not provided; rely on the extracted requirements."
	}
	resume := ResumeText(r)
	if r != nil && r.PersonalInfo.FullName() != "" {
		resume = r.PersonalInfo.FullName() + "\n" + resume
	}

	return prompts.Fill(promptFile, promptKey, map[string]string{
		"Requirements": formatRequirements(req),
		"Job":          validation.GuardExternalContent(e.log, job, "job description"),
		"Resume":       validation.GuardExternalContent(e.log, resume, "resume"),
	})
}

func formatRequirements(req *types.JobRequirement) string {
	list := func(items []string) string {
		if len(items) == 0 {
			return "Not specified"
		}
		return strings.Join(items, ", ")
	}
	level := string(req.ExperienceLevel)
	if level == "" {
		level = "Not specified"
	}

	var sb strings.Builder
	if req.Title != "" {
		sb.WriteString("Title: " + req.Title + "\n")
	}
	sb.WriteString("Required skills: " + list(req.RequiredSkills) + "\n")
	sb.WriteString("Preferred skills: " + list(req.PreferredSkills) + "\n")
	sb.WriteString("Experience level: " + level + "\n")
	sb.WriteString("Keywords: " + list(req.Keywords))
	return sb.String()
}

// scoreValue reads a model score given as a number or numeric text such as
// "85" or "85%", clamped to 0-100
func scoreValue(v interface{}) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return int(math.Round(math.Max(0, math.Min(100, f)))), true
}

func stringList(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func truncateRaw(s string) string {
	if len(s) > 200 {
		return llm.Clip(s, 200) + "..."
	}
	return s
}
