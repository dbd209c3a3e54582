// Package scoring computes how well a resume fits a job. An AI judgment is
// preferred; a deterministic heuristic takes over whenever the AI collaborator
// is absent, failing or unparseable. Both paths are capped by content quality
// so a structurally thin resume can never score high.
package scoring

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/jonathan/resume-markup/internal/llm"
	"github.com/jonathan/resume-markup/internal/logger"
	"github.com/jonathan/resume-markup/internal/metrics"
	"github.com/jonathan/resume-markup/internal/quality"
	"github.com/jonathan/resume-markup/internal/types"
)

// DefaultThreshold is the content quality at which scores stop being capped.
// A calibration value, not a derived constant.
const DefaultThreshold = quality.DefaultGateQuality

// Options tune an Engine. Zero values select the defaults.
type Options struct {
	Threshold int
	Weights   quality.Weights
	Logger    logger.Logger
	Now       func() time.Time
}

// Input is one scoring request. Requirements may be nil or empty, in which
// case skills are detected from JobText.
type Input struct {
	Resume       *types.ResumeRecord
	JobText      string
	Requirements *types.JobRequirement
}

// Engine scores resumes against jobs
type Engine struct {
	client    llm.Client
	assessor  quality.Assessor
	threshold int
	log       logger.Logger
	now       func() time.Time
}

// NewEngine creates a scoring engine. client may be nil, in which case every
// score comes from the heuristic path.
func NewEngine(client llm.Client, opts Options) *Engine {
	e := &Engine{
		client:    client,
		assessor:  quality.Assessor{Weights: opts.Weights},
		threshold: opts.Threshold,
		log:       logger.OrNop(opts.Logger),
		now:       opts.Now,
	}
	if e.assessor.Weights == (quality.Weights{}) {
		e.assessor.Weights = quality.DefaultWeights()
	}
	if e.threshold <= 0 {
		e.threshold = DefaultThreshold
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Threshold returns the quality gate in effect
func (e *Engine) Threshold() int {
	return e.threshold
}

// Assess reports content quality using the engine's weights
func (e *Engine) Assess(r *types.ResumeRecord) types.ContentQuality {
	return e.assessor.Assess(r)
}

// Score never fails: AI problems are reported on the result and the
// heuristic score is returned instead.
func (e *Engine) Score(ctx context.Context, in Input) *types.MatchResult {
	req := in.Requirements
	if req == nil {
		req = &types.JobRequirement{ExperienceLevel: types.LevelMid}
	}
	cq := e.assessor.Assess(in.Resume)

	if strings.TrimSpace(in.JobText) == "" && req.IsEmpty() {
		return e.finish(emptyJobResult(in.Resume), cq)
	}

	var (
		raw      *types.MatchResult
		failures []types.ProviderFailure
		reason   string
	)
	heuristic := e.heuristic(in.Resume, in.JobText, req)
	if e.client != nil {
		judged, err := e.judge(ctx, in.Resume, in.JobText, req, heuristic)
		if err != nil {
			r := llm.ClassifyFailure(err)
			reason = string(r)
			failures = append(failures, types.ProviderFailure{
				Provider: string(e.client.Provider()),
				Model:    e.client.GetModel(llm.TierStandard),
				Reason:   reason,
				Message:  err.Error(),
			})
			metrics.AIFailures.WithLabelValues("score", reason).Inc()
			e.log.WithError(err).Warn("AI match judgment failed, using heuristic score", map[string]interface{}{
				"reason": reason,
			})
		} else {
			raw = judged
		}
	}
	if raw == nil {
		raw = heuristic
	}
	raw.FailureReason = reason
	raw.ProviderFailures = failures
	return e.finish(raw, cq)
}

// finish applies the quality cap and derives confidence
func (e *Engine) finish(r *types.MatchResult, cq types.ContentQuality) *types.MatchResult {
	r.OverallMatch = ApplyQuality(r.OverallMatch, cq.Score, e.threshold)
	r.SkillsMatch = ApplyQuality(r.SkillsMatch, cq.Score, e.threshold)
	r.ExperienceMatch = ApplyQuality(r.ExperienceMatch, cq.Score, e.threshold)
	r.KeywordAlignment = ApplyQuality(r.KeywordAlignment, cq.Score, e.threshold)
	r.ATSCompatibility = ApplyQuality(r.ATSCompatibility, cq.Score, e.threshold)

	r.ContentQuality = cq.Score
	r.QualityIssues = cq.Issues
	r.Confidence = ConfidenceFor(r.Mode, cq.Score, e.threshold)
	if cq.Score < e.threshold {
		r.Recommendations = append(r.Recommendations,
			"Add more detail to the resume: scores are capped until content quality improves")
	}
	r.MatchingSkills = nonNil(r.MatchingSkills)
	r.MissingSkills = nonNil(r.MissingSkills)
	r.StrongPoints = nonNil(r.StrongPoints)
	r.Recommendations = nonNil(r.Recommendations)

	metrics.MatchScores.WithLabelValues(string(r.Mode), string(r.Confidence)).Inc()
	e.log.Debug("match scored", map[string]interface{}{
		"mode":       string(r.Mode),
		"overall":    r.OverallMatch,
		"quality":    cq.Score,
		"confidence": string(r.Confidence),
	})
	return r
}

// ApplyQuality scales a raw 0-100 score by min(1, quality/threshold) and
// rounds to the nearest integer
func ApplyQuality(raw, quality, threshold int) int {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	factor := math.Min(1, float64(quality)/float64(threshold))
	if factor < 0 {
		factor = 0
	}
	return clamp(int(math.Round(float64(clamp(raw)) * factor)))
}

// ConfidenceFor is high when the AI judged a resume of sufficient quality,
// low when neither holds and medium otherwise
func ConfidenceFor(mode types.ScoringMode, quality, threshold int) types.Confidence {
	aiPath := mode == types.ModeAI
	goodContent := quality >= threshold
	switch {
	case aiPath && goodContent:
		return types.ConfidenceHigh
	case aiPath || goodContent:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

func emptyJobResult(r *types.ResumeRecord) *types.MatchResult {
	recs := []string{"Provide a job description or job URL to compute a match score"}
	if !hasContent(r) {
		recs = append(recs, "Provide resume content: work experience, skills and a summary")
	}
	return &types.MatchResult{Mode: types.ModeFallback, Recommendations: recs}
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
