// Package jobanalysis turns raw job posting text into a structured
// requirement set. Every failure degrades to an empty requirement set; no
// error reaches the caller.
package jobanalysis

import (
	"context"
	"errors"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/jonathan/resume-markup/internal/llm"
	"github.com/jonathan/resume-markup/internal/logger"
	"github.com/jonathan/resume-markup/internal/metrics"
	"github.com/jonathan/resume-markup/internal/prompts"
	"github.com/jonathan/resume-markup/internal/schemas"
	"github.com/jonathan/resume-markup/internal/types"
	"github.com/jonathan/resume-markup/internal/validation"
)

const (
	promptFile = "analysis.json"
	promptKey  = "extract-job-requirements"

	// maxJobTextLength bounds the posting text sent to the model
	maxJobTextLength = 20000
)

// ErrNoFetcher is returned by FetchText when the extractor has no fetcher
var ErrNoFetcher = errors.New("no job posting fetcher configured")

// TextFetcher retrieves readable posting text from a URL
type TextFetcher interface {
	JobText(ctx context.Context, url string) (string, error)
}

// Extractor derives JobRequirement values from postings
type Extractor struct {
	client  llm.Client
	fetcher TextFetcher
	log     logger.Logger
}

// NewExtractor creates an extractor. A nil client means every analysis
// returns the empty fallback; a nil fetcher disables AnalyzeURL.
func NewExtractor(client llm.Client, fetcher TextFetcher, log logger.Logger) *Extractor {
	return &Extractor{client: client, fetcher: fetcher, log: logger.OrNop(log)}
}

// Empty is the requirement set returned on any failure. Scoring still runs
// against it.
func Empty() *types.JobRequirement {
	return &types.JobRequirement{
		RequiredSkills:   []string{},
		PreferredSkills:  []string{},
		ExperienceLevel:  types.LevelMid,
		Responsibilities: []string{},
		Qualifications:   []string{},
		Keywords:         []string{},
		Source:           types.SourceFallback,
	}
}

// Analyze extracts requirements from posting text
func (e *Extractor) Analyze(ctx context.Context, text string) *types.JobRequirement {
	text = strings.TrimSpace(text)
	if text == "" {
		return e.fallback("empty job text", "")
	}
	if e.client == nil {
		return e.fallback("no AI client configured", "")
	}

	description, err := prompts.Get(promptFile, promptKey)
	if err != nil {
		return e.fallback("prompt unavailable: "+err.Error(), "")
	}
	text = llm.Clip(text, maxJobTextLength)
	prompt := llm.BuildExtractionPrompt(
		llm.JobRequirementsSchema(description),
		validation.GuardExternalContent(e.log, text, "job posting"),
	)

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		reason := llm.ClassifyFailure(err)
		metrics.AIFailures.WithLabelValues("job_analysis", string(reason)).Inc()
		return e.fallback(err.Error(), reason)
	}

	var decoded map[string]interface{}
	repaired, err := llm.DecodeJSON(raw, &decoded)
	if repaired {
		e.log.Debug("repaired job analysis response", map[string]interface{}{"ok": err == nil})
	}
	if err != nil {
		metrics.AIFailures.WithLabelValues("job_analysis", string(llm.ReasonMalformed)).Inc()
		return e.fallback(err.Error(), llm.ReasonMalformed)
	}
	if err := schemas.ValidateJobRequirement(decoded); err != nil {
		metrics.AIFailures.WithLabelValues("job_analysis", string(llm.ReasonMalformed)).Inc()
		return e.fallback(err.Error(), llm.ReasonMalformed)
	}

	req, err := decodeRequirement(decoded)
	if err != nil {
		return e.fallback(err.Error(), llm.ReasonMalformed)
	}
	req.Source = types.SourceAI
	metrics.JobAnalyses.WithLabelValues(types.SourceAI).Inc()
	return req
}

// AnalyzeURL fetches a posting and analyzes its text
func (e *Extractor) AnalyzeURL(ctx context.Context, url string) *types.JobRequirement {
	if e.fetcher == nil {
		return e.fallback("no fetcher configured", "")
	}
	text, err := e.fetcher.JobText(ctx, url)
	if err != nil {
		e.log.WithError(err).Warn("failed to fetch job posting", map[string]interface{}{"url": url})
		return e.fallback("fetch failed", "")
	}
	return e.Analyze(ctx, text)
}

// FetchText exposes the fetcher so callers can score against the same text
func (e *Extractor) FetchText(ctx context.Context, url string) (string, error) {
	if e.fetcher == nil {
		return "", ErrNoFetcher
	}
	return e.fetcher.JobText(ctx, url)
}

func (e *Extractor) fallback(why string, reason llm.FailureReason) *types.JobRequirement {
	fields := map[string]interface{}{"cause": why}
	if reason != "" {
		fields["reason"] = string(reason)
	}
	e.log.Warn("job analysis fell back to empty requirements", fields)
	metrics.JobAnalyses.WithLabelValues(types.SourceFallback).Inc()
	return Empty()
}

// decodeRequirement maps the loosely typed model output onto a
// JobRequirement and normalizes it
func decodeRequirement(decoded map[string]interface{}) (*types.JobRequirement, error) {
	var wire struct {
		Title            string   `mapstructure:"title"`
		Company          string   `mapstructure:"company"`
		RequiredSkills   []string `mapstructure:"requiredSkills"`
		PreferredSkills  []string `mapstructure:"preferredSkills"`
		ExperienceLevel  string   `mapstructure:"experienceLevel"`
		Responsibilities []string `mapstructure:"responsibilities"`
		Qualifications   []string `mapstructure:"qualifications"`
		Keywords         []string `mapstructure:"keywords"`
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &wire,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(decoded); err != nil {
		return nil, err
	}

	required := NormalizeSkills(wire.RequiredSkills)
	return &types.JobRequirement{
		Title:            strings.TrimSpace(wire.Title),
		Company:          strings.TrimSpace(wire.Company),
		RequiredSkills:   required,
		PreferredSkills:  without(NormalizeSkills(wire.PreferredSkills), required),
		ExperienceLevel:  NormalizeLevel(wire.ExperienceLevel),
		Responsibilities: cleanList(wire.Responsibilities),
		Qualifications:   cleanList(wire.Qualifications),
		Keywords:         normalizeKeywords(wire.Keywords),
	}, nil
}

// NormalizeLevel maps free-form seniority text to a tier, defaulting to mid
func NormalizeLevel(level string) types.ExperienceLevel {
	l := strings.ToLower(strings.TrimSpace(level))
	switch {
	case l == "":
		return types.LevelMid
	case containsAny(l, "executive", "exec", "director", "vp", "vice president", "head of", "chief", "cto", "principal"):
		return types.LevelExecutive
	case containsAny(l, "senior", "sr", "lead", "staff"):
		return types.LevelSenior
	case containsAny(l, "entry", "junior", "jr", "intern", "graduate", "associate"):
		return types.LevelEntry
	default:
		return types.LevelMid
	}
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if containsTerm(s, t) {
			return true
		}
	}
	return false
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.Join(strings.Fields(item), " "); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func normalizeKeywords(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range cleanList(items) {
		k := strings.ToLower(item)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// without drops entries of list that also appear in exclude
func without(list, exclude []string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[strings.ToLower(e)] = true
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if !skip[strings.ToLower(item)] {
			out = append(out, item)
		}
	}
	return out
}
