package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-markup/internal/normalize"
	"github.com/jonathan/resume-markup/internal/pipeline"
	"github.com/jonathan/resume-markup/internal/schemas"
	"github.com/jonathan/resume-markup/internal/scoring"
	"github.com/jonathan/resume-markup/internal/suggestions"
	"github.com/jonathan/resume-markup/internal/types"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 2 << 20

var validate = validator.New()

// identityCheck carries the personal fields checked beyond the schema
type identityCheck struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// RenderRequest represents a render request
type RenderRequest struct {
	Resume     json.RawMessage `json:"resume"`
	TemplateID string          `json:"templateId"`
}

// RenderResponse is a rendered document and its archive id, if archived
type RenderResponse struct {
	Markup     string `json:"markup"`
	TemplateID string `json:"templateId"`
	FellBack   bool   `json:"fellBack"`
	RenderID   string `json:"renderId,omitempty"`
}

// ScoreRequest represents a scoring request. Requirements take precedence
// over JobText, which takes precedence over JobURL.
type ScoreRequest struct {
	Resume       json.RawMessage       `json:"resume"`
	JobText      string                `json:"jobText"`
	JobURL       string                `json:"jobUrl"`
	Requirements *types.JobRequirement `json:"requirements,omitempty"`
}

// AnalyzeJobRequest represents a job analysis request
type AnalyzeJobRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// QualityRequest represents a content quality request
type QualityRequest struct {
	Resume json.RawMessage `json:"resume"`
}

// SuggestionsRequest compares two versions of a resume
type SuggestionsRequest struct {
	Original  json.RawMessage `json:"original"`
	Optimized json.RawMessage `json:"optimized"`
}

// EvaluateRequest renders and scores a resume in one call
type EvaluateRequest struct {
	Resume     json.RawMessage `json:"resume"`
	TemplateID string          `json:"templateId"`
	JobText    string          `json:"jobText"`
	JobURL     string          `json:"jobUrl"`
}

// EvaluateResponse flattens a pipeline evaluation for clients
type EvaluateResponse struct {
	RenderResponse
	Requirements *types.JobRequirement `json:"requirements"`
	Match        *types.MatchResult    `json:"match"`
	Quality      types.ContentQuality  `json:"quality"`
}

func newEvaluateResponse(e *pipeline.Evaluation) EvaluateResponse {
	return EvaluateResponse{
		RenderResponse: RenderResponse{
			Markup:     e.Render.Markup,
			TemplateID: e.Render.TemplateID,
			FellBack:   e.Render.FellBack,
			RenderID:   e.RenderID,
		},
		Requirements: e.Requirements,
		Match:        e.Match,
		Quality:      e.Quality,
	}
}

// decodeBody decodes a size-capped JSON body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &ErrValidation{Field: "body", Message: fmt.Sprintf("exceeds %d bytes", maxErr.Limit)}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// decodeResume validates a raw resume document against the resume schema,
// normalizes it and checks identity fields.
func decodeResume(field string, raw json.RawMessage) (*types.ResumeRecord, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &ErrValidation{Field: field, Message: "is required"}
	}
	if err := schemas.ValidateResume(raw); err != nil {
		return nil, err
	}
	record, err := normalize.JSON(raw)
	if err != nil {
		return nil, err
	}

	p := record.PersonalInfo
	check := identityCheck{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     strings.TrimSpace(p.Email),
	}
	if err := validate.Struct(check); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, &ErrValidation{
				Field:   field + ".personalInfo." + lowerFirst(fe.Field()),
				Message: fmt.Sprintf("failed %q check", fe.Tag()),
			}
		}
		return nil, err
	}
	return record, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// handleRender renders a resume and archives the result when an archive is configured
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resume, err := decodeResume("resume", req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.svc.Renderer.Render(r.Context(), resume, req.TemplateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := RenderResponse{Markup: out.Markup, TemplateID: out.TemplateID, FellBack: out.FellBack}
	if s.svc.Archive != nil {
		id, err := s.svc.Archive.SaveRender(r.Context(), out.TemplateID, out.FellBack, out.Markup)
		if err != nil {
			s.log.WithError(err).Warn("failed to archive render", nil)
		} else {
			resp.RenderID = id.String()
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetRender returns an archived render
func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	rawID := r.PathValue("id")
	if s.renders == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "render", ID: rawID})
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	render, err := s.renders.GetRender(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, render)
}

// handleScore scores a resume against supplied requirements or a job posting
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resume, err := decodeResume("resume", req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	jobText := req.JobText
	requirements := req.Requirements
	if requirements == nil {
		if strings.TrimSpace(jobText) == "" && req.JobURL != "" {
			jobText, err = s.svc.Analyzer.FetchText(r.Context(), req.JobURL)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		if strings.TrimSpace(jobText) != "" {
			requirements = s.svc.Analyzer.Analyze(r.Context(), jobText)
		}
	}

	result := s.svc.Scorer.Score(r.Context(), scoring.Input{
		Resume:       resume,
		JobText:      jobText,
		Requirements: requirements,
	})
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyzeJob extracts structured requirements from posting text or a URL
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeJobRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	text := req.Text
	if strings.TrimSpace(text) == "" {
		if req.URL == "" {
			s.writeError(w, r, &ErrValidation{Field: "text", Message: "text or url is required"})
			return
		}
		var err error
		text, err = s.svc.Analyzer.FetchText(r.Context(), req.URL)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, s.svc.Analyzer.Analyze(r.Context(), text))
}

// handleQuality assesses resume completeness
func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	var req QualityRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resume, err := decodeResume("resume", req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.svc.Scorer.Assess(resume))
}

// handleSuggestions lists the differences between two resume versions
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	original, err := decodeResume("original", req.Original)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	optimized, err := decodeResume("optimized", req.Optimized)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"suggestions": suggestions.Generate(original, optimized),
	})
}

// parseEvaluate decodes an evaluate body into a pipeline request
func parseEvaluate(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	var req EvaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		return pipeline.Request{}, err
	}
	resume, err := decodeResume("resume", req.Resume)
	if err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.Request{
		Resume:     resume,
		TemplateID: req.TemplateID,
		JobText:    req.JobText,
		JobURL:     req.JobURL,
	}, nil
}

// handleEvaluate renders and scores a resume in one call
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	req, err := parseEvaluate(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	eval, err := pipeline.Evaluate(r.Context(), s.svc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newEvaluateResponse(eval))
}

// handleEvaluateStream runs an evaluation and streams progress as SSE
func (s *Server) handleEvaluateStream(w http.ResponseWriter, r *http.Request) {
	req, err := parseEvaluate(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	req.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent(EventStep, event); err != nil {
			s.log.WithError(err).Debug("failed to write progress event", nil)
		}
	}

	eval, err := pipeline.Evaluate(r.Context(), s.svc, req)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.log.WithError(err).Error("streamed evaluation failed", nil)
		}
		sse.WriteError(publicMessage(err, status))
		sse.WriteComplete("failed", nil)
		return
	}
	sse.WriteComplete("completed", newEvaluateResponse(eval))
}
