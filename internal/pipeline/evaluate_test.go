package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-markup/internal/jobanalysis"
	"github.com/jonathan/resume-markup/internal/logger"
	"github.com/jonathan/resume-markup/internal/rendering"
	"github.com/jonathan/resume-markup/internal/scoring"
	"github.com/jonathan/resume-markup/internal/types"
)

type fakeFetcher struct {
	text string
	err  error
	urls []string
}

func (f *fakeFetcher) JobText(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.text, f.err
}

type fakeArchive struct {
	id  uuid.UUID
	err error

	mu     sync.Mutex
	markup []string
}

func (a *fakeArchive) SaveRender(_ context.Context, _ string, _ bool, markup string) (uuid.UUID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.markup = append(a.markup, markup)
	return a.id, a.err
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, *types.ResumeRecord, string) (*rendering.Output, error) {
	return nil, &rendering.RenderError{TemplateID: "classic", Cause: errors.New("store down")}
}

func testResume() *types.ResumeRecord {
	return &types.ResumeRecord{
		PersonalInfo: types.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		WorkExperience: []types.WorkExperience{{
			JobTitle:     "Data Engineer",
			Company:      "Acme",
			StartDate:    "2019-01",
			IsCurrent:    true,
			Technologies: []string{"Python", "SQL"},
		}},
		Skills: []types.Skill{{Name: "Python"}, {Name: "SQL"}},
	}
}

func testServices(t *testing.T, fetcher jobanalysis.TextFetcher) Services {
	t.Helper()
	log := logger.NewTestLogger(t)
	return NewServices(
		rendering.NewRenderer(nil, log),
		jobanalysis.NewExtractor(nil, fetcher, log),
		scoring.NewEngine(nil, scoring.Options{Logger: log}),
		nil,
		log,
	)
}

func TestEvaluate_RendersAndScores(t *testing.T) {
	svc := testServices(t, nil)

	var steps []string
	ev, err := Evaluate(context.Background(), svc, Request{
		Resume:     testResume(),
		TemplateID: "no-such-template",
		JobText:    "We need a Python and SQL engineer.",
		OnProgress: func(e ProgressEvent) { steps = append(steps, e.Step) },
	})
	require.NoError(t, err)

	require.NotNil(t, ev.Render)
	assert.True(t, ev.Render.FellBack)
	assert.Contains(t, ev.Render.Markup, "Lovelace")
	assert.Empty(t, ev.RenderID)

	require.NotNil(t, ev.Requirements)
	assert.Equal(t, types.SourceFallback, ev.Requirements.Source)

	require.NotNil(t, ev.Match)
	assert.Equal(t, types.ModeFallback, ev.Match.Mode)
	assert.Equal(t, 100, ev.Match.SkillsMatch)
	assert.Equal(t, ev.Match.ContentQuality, ev.Quality.Score)

	assert.ElementsMatch(t, []string{StepRender, StepAnalyzeJob, StepScore, StepComplete}, steps)
	assert.Equal(t, StepComplete, steps[len(steps)-1])
}

func TestEvaluate_FetchesJobURL(t *testing.T) {
	fetcher := &fakeFetcher{text: "Looking for a Kubernetes expert."}
	svc := testServices(t, fetcher)

	ev, err := Evaluate(context.Background(), svc, Request{
		Resume: testResume(),
		JobURL: "https://boards.greenhouse.io/acme/jobs/1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://boards.greenhouse.io/acme/jobs/1"}, fetcher.urls)
	assert.Equal(t, []string{"Kubernetes"}, ev.Match.MissingSkills)
}

func TestEvaluate_JobTextWinsOverURL(t *testing.T) {
	fetcher := &fakeFetcher{text: "unused"}
	svc := testServices(t, fetcher)

	_, err := Evaluate(context.Background(), svc, Request{
		Resume:  testResume(),
		JobText: "Python role",
		JobURL:  "https://example.com/job",
	})
	require.NoError(t, err)
	assert.Empty(t, fetcher.urls)
}

func TestEvaluate_FetchFailureStillScores(t *testing.T) {
	svc := testServices(t, &fakeFetcher{err: errors.New("connection refused")})

	ev, err := Evaluate(context.Background(), svc, Request{
		Resume: testResume(),
		JobURL: "https://example.com/job",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, ev.Match.OverallMatch)
	assert.NotEmpty(t, ev.Match.Recommendations)
}

func TestEvaluate_ArchivesRender(t *testing.T) {
	id := uuid.New()
	archive := &fakeArchive{id: id}
	svc := testServices(t, nil)
	svc.Archive = archive

	ev, err := Evaluate(context.Background(), svc, Request{Resume: testResume(), JobText: "Python"})
	require.NoError(t, err)
	assert.Equal(t, id.String(), ev.RenderID)
	assert.Equal(t, []string{ev.Render.Markup}, archive.markup)
}

func TestEvaluate_ArchiveFailureIsNotFatal(t *testing.T) {
	svc := testServices(t, nil)
	svc.Archive = &fakeArchive{err: errors.New("db down")}

	ev, err := Evaluate(context.Background(), svc, Request{Resume: testResume(), JobText: "Python"})
	require.NoError(t, err)
	assert.Empty(t, ev.RenderID)
	assert.NotEmpty(t, ev.Render.Markup)
}

func TestEvaluate_RenderFailureFails(t *testing.T) {
	svc := testServices(t, nil)
	svc.Renderer = failingRenderer{}

	ev, err := Evaluate(context.Background(), svc, Request{Resume: testResume(), JobText: "Python"})
	require.Error(t, err)
	assert.Nil(t, ev)

	var renderErr *rendering.RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestEvaluate_MissingServices(t *testing.T) {
	_, err := Evaluate(context.Background(), Services{}, Request{})
	assert.Error(t, err)
}
