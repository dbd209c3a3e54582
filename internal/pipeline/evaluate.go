// Package pipeline runs rendering and job-fit scoring for one resume as a
// single evaluation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-markup/internal/jobanalysis"
	"github.com/jonathan/resume-markup/internal/logger"
	"github.com/jonathan/resume-markup/internal/rendering"
	"github.com/jonathan/resume-markup/internal/scoring"
	"github.com/jonathan/resume-markup/internal/types"
)

// Progress steps
const (
	StepRender     = "render"
	StepArchive    = "archive"
	StepFetchJob   = "fetch_job"
	StepAnalyzeJob = "analyze_job"
	StepScore      = "score"
	StepComplete   = "complete"
)

// ProgressEvent represents a progress update during an evaluation
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when evaluation progress occurs. Calls are
// serialized even though the branches run concurrently.
type ProgressCallback func(event ProgressEvent)

// Renderer produces markup for a resume
type Renderer interface {
	Render(ctx context.Context, resume *types.ResumeRecord, templateID string) (*rendering.Output, error)
}

// Analyzer turns posting text into requirements
type Analyzer interface {
	Analyze(ctx context.Context, text string) *types.JobRequirement
	FetchText(ctx context.Context, url string) (string, error)
}

// Scorer scores a resume against a job
type Scorer interface {
	Score(ctx context.Context, in scoring.Input) *types.MatchResult
	Assess(r *types.ResumeRecord) types.ContentQuality
}

// Archive stores rendered documents
type Archive interface {
	SaveRender(ctx context.Context, templateID string, fellBack bool, markup string) (uuid.UUID, error)
}

// Services are the collaborators an evaluation uses. Archive is optional.
type Services struct {
	Renderer Renderer
	Analyzer Analyzer
	Scorer   Scorer
	Archive  Archive
	Logger   logger.Logger
}

// Request is one evaluation. JobURL is fetched only when JobText is blank.
type Request struct {
	Resume     *types.ResumeRecord
	TemplateID string
	JobText    string
	JobURL     string
	OnProgress ProgressCallback
}

// Evaluation is the combined result
type Evaluation struct {
	Render       *rendering.Output     `json:"render"`
	RenderID     string                `json:"renderId,omitempty"`
	Requirements *types.JobRequirement `json:"requirements"`
	Match        *types.MatchResult    `json:"match"`
	Quality      types.ContentQuality  `json:"quality"`
}

type renderBranchResult struct {
	output   *rendering.Output
	renderID string
}

type scoreBranchResult struct {
	requirements *types.JobRequirement
	match        *types.MatchResult
}

// Evaluate renders the resume while the job is analyzed and scored. Only a
// rendering failure fails the evaluation; job fetch and AI problems degrade
// to fallback requirements and heuristic scores.
func Evaluate(ctx context.Context, svc Services, req Request) (*Evaluation, error) {
	if svc.Renderer == nil || svc.Analyzer == nil || svc.Scorer == nil {
		return nil, fmt.Errorf("evaluation requires a renderer, analyzer and scorer")
	}
	log := logger.OrNop(svc.Logger)

	var progressMu sync.Mutex
	emit := func(step, message string, content any) {
		if req.OnProgress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		req.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}

	var (
		rendered renderBranchResult
		scored   scoreBranchResult
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := svc.Renderer.Render(gCtx, req.Resume, req.TemplateID)
		if err != nil {
			return fmt.Errorf("rendering failed: %w", err)
		}
		rendered.output = out
		emit(StepRender, fmt.Sprintf("Rendered resume with template %s", out.TemplateID), out)

		if svc.Archive != nil {
			id, err := svc.Archive.SaveRender(gCtx, out.TemplateID, out.FellBack, out.Markup)
			if err != nil {
				log.WithError(err).Warn("failed to archive rendered resume", map[string]interface{}{
					"template_id": out.TemplateID,
				})
			} else {
				rendered.renderID = id.String()
				emit(StepArchive, "Archived rendered resume", map[string]string{"id": rendered.renderID})
			}
		}
		return nil
	})

	g.Go(func() error {
		jobText := strings.TrimSpace(req.JobText)
		if jobText == "" && strings.TrimSpace(req.JobURL) != "" {
			text, err := svc.Analyzer.FetchText(gCtx, req.JobURL)
			if err != nil {
				log.WithError(err).Warn("failed to fetch job posting, scoring without it", map[string]interface{}{
					"url": req.JobURL,
				})
			} else {
				jobText = text
				emit(StepFetchJob, fmt.Sprintf("Fetched job posting (%d chars)", len(text)), nil)
			}
		}

		requirements := svc.Analyzer.Analyze(gCtx, jobText)
		emit(StepAnalyzeJob, fmt.Sprintf("Extracted %d required skills", len(requirements.RequiredSkills)), requirements)

		match := svc.Scorer.Score(gCtx, scoring.Input{
			Resume:       req.Resume,
			JobText:      jobText,
			Requirements: requirements,
		})
		emit(StepScore, fmt.Sprintf("Overall match %d%% (%s)", match.OverallMatch, match.Mode), match)

		scored = scoreBranchResult{requirements: requirements, match: match}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ev := &Evaluation{
		Render:       rendered.output,
		RenderID:     rendered.renderID,
		Requirements: scored.requirements,
		Match:        scored.match,
		Quality:      svc.Scorer.Assess(req.Resume),
	}
	emit(StepComplete, "Evaluation complete", nil)
	log.Info("evaluation complete", map[string]interface{}{
		"template_id":   ev.Render.TemplateID,
		"overall_match": ev.Match.OverallMatch,
		"mode":          string(ev.Match.Mode),
		"quality":       ev.Quality.Score,
	})
	return ev, nil
}

// NewServices wires the concrete implementations
func NewServices(renderer *rendering.Renderer, extractor *jobanalysis.Extractor, engine *scoring.Engine, archive Archive, log logger.Logger) Services {
	return Services{Renderer: renderer, Analyzer: extractor, Scorer: engine, Archive: archive, Logger: log}
}
