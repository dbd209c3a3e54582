package rendering

import (
	"context"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/resume-markup/internal/logger"
	"github.com/jonathan/resume-markup/internal/metrics"
	"github.com/jonathan/resume-markup/internal/templates"
	"github.com/jonathan/resume-markup/internal/types"
)

// Output is a rendered document
type Output struct {
	Markup     string `json:"markup"`
	TemplateID string `json:"templateId"`
	FellBack   bool   `json:"fellBack"`
}

// Resolver supplies template skeletons
type Resolver interface {
	Resolve(ctx context.Context, id string) (templates.TemplateAsset, bool, error)
}

// Renderer fills a resolved template with the rendered resume body
type Renderer struct {
	resolver Resolver
	log      logger.Logger
	now      func() time.Time
}

// NewRenderer creates a renderer. A nil resolver serves built-in templates only.
func NewRenderer(resolver Resolver, log logger.Logger) *Renderer {
	if resolver == nil {
		resolver = templates.NewResolver(nil, templates.WithLogger(log))
	}
	return &Renderer{resolver: resolver, log: logger.OrNop(log), now: time.Now}
}

// WithClock returns a copy of the renderer using now for graduation dates
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	cp := *r
	cp.now = now
	return &cp
}

// unresolvedLabel stands in for the template label when no asset was
// resolved, so caller-supplied ids never become metric series
const unresolvedLabel = "unknown"

// Render produces the full document for resume using templateID. An unknown
// template falls back to the default; only an unreachable template store
// is an error.
func (r *Renderer) Render(ctx context.Context, resume *types.ResumeRecord, templateID string) (*Output, error) {
	start := time.Now()
	defer func() { metrics.MarkupRenderDuration.Observe(time.Since(start).Seconds()) }()

	asset, fellBack, err := r.resolver.Resolve(ctx, templateID)
	if err != nil {
		metrics.MarkupRenders.WithLabelValues(unresolvedLabel, "error").Inc()
		return nil, &RenderError{TemplateID: templateID, Cause: err}
	}

	body := Body(resume, r.now())
	markup, err := Fill(asset, body)
	if err != nil {
		metrics.MarkupRenders.WithLabelValues(asset.ID, "error").Inc()
		return nil, err
	}

	outcome := "ok"
	if fellBack {
		outcome = "fallback"
	}
	metrics.MarkupRenders.WithLabelValues(asset.ID, outcome).Inc()
	r.log.Debug("rendered resume markup", map[string]interface{}{
		"template_id": asset.ID,
		"requested":   templateID,
		"fell_back":   fellBack,
		"bytes":       len(markup),
	})

	return &Output{Markup: markup, TemplateID: asset.ID, FellBack: fellBack}, nil
}

// Fill executes the skeleton with body as its single content value
func Fill(asset templates.TemplateAsset, body string) (string, error) {
	tmpl, err := template.New(asset.ID).Option("missingkey=error").Parse(asset.Skeleton)
	if err != nil {
		return "", &TemplateError{TemplateID: asset.ID, Stage: "parse", Cause: err}
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, struct{ Content string }{Content: body}); err != nil {
		return "", &TemplateError{TemplateID: asset.ID, Stage: "execute", Cause: err}
	}
	return sb.String(), nil
}
