package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/resume-markup/internal/db"
	"github.com/jonathan/resume-markup/internal/logger"
	"github.com/jonathan/resume-markup/internal/metrics"
	"github.com/jonathan/resume-markup/internal/pipeline"
	"github.com/jonathan/resume-markup/internal/schemas"
	"github.com/jonathan/resume-markup/internal/server/middleware"
	"github.com/jonathan/resume-markup/internal/server/ratelimit"
)

// RenderReader looks up archived renders
type RenderReader interface {
	GetRender(ctx context.Context, id uuid.UUID) (*db.Render, error)
}

// Pinger reports backing store health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the engine components the API serves. Renders and Health are
// optional and only set when a database is configured.
type Deps struct {
	Services pipeline.Services
	Renders  RenderReader
	Health   Pinger
	Logger   logger.Logger
}

// Options configure the listener and middleware
type Options struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	RateLimit      *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	svc         pipeline.Services
	renders     RenderReader
	health      Pinger
	log         logger.Logger
	rateLimiter *ratelimit.Limiter
	origins     []string
}

// New creates a new server instance
func New(deps Deps, opts Options) *Server {
	s := &Server{
		svc:         deps.Services,
		renders:     deps.Renders,
		health:      deps.Health,
		log:         logger.OrNop(deps.Logger),
		rateLimiter: ratelimit.NewLimiter(opts.RateLimit),
		origins:     opts.AllowedOrigins,
	}
	if s.svc.Logger == nil {
		s.svc.Logger = s.log
	}

	mux := http.NewServeMux()
	s.route(mux, "POST /v1/render", s.handleRender)
	s.route(mux, "GET /v1/renders/{id}", s.handleGetRender)
	s.route(mux, "POST /v1/score", s.handleScore)
	s.route(mux, "POST /v1/analyze-job", s.handleAnalyzeJob)
	s.route(mux, "POST /v1/quality", s.handleQuality)
	s.route(mux, "POST /v1/suggestions", s.handleSuggestions)
	s.route(mux, "POST /v1/evaluate", s.handleEvaluate)
	s.route(mux, "POST /v1/evaluate/stream", s.handleEvaluateStream)
	s.route(mux, "GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		// scoring and job analysis wait on the AI collaborator
		writeTimeout = 2 * time.Minute
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      middleware.RequestID(s.withLogging(s.withCORS(s.withRateLimit(mux)))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", map[string]interface{}{"addr": s.httpServer.Addr})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped", nil)
	return nil
}

// route registers h under pattern and records per-route metrics
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		metrics.HTTPRequests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	}))
}

// statusRecorder captures the response status for logs and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush lets SSE handlers stream through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.origins) > 0 {
			origin = ""
			if reqOrigin := r.Header.Get("Origin"); slices.Contains(s.origins, reqOrigin) {
				origin = reqOrigin
				w.Header().Add("Vary", "Origin")
			}
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.RequestIDHeader)
			w.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.log.WithFields(map[string]interface{}{
			"request_id": middleware.GetRequestID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		log.Info("request started", map[string]interface{}{"remote_addr": r.RemoteAddr})

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Info("request completed", map[string]interface{}{
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.log.WithError(err).Warn("health check failed", nil)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("failed to encode JSON response", nil)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.jsonResponse(w, status, map[string]string{
		"error":      message,
		"request_id": middleware.GetRequestID(r.Context()),
	})
}

// writeError maps err to a status and writes it. Server-side failures are
// logged with their full cause.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed", map[string]interface{}{
			"request_id": middleware.GetRequestID(r.Context()),
			"status":     status,
		})
	}
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		s.jsonResponse(w, status, map[string]any{
			"error":      "resume does not match schema",
			"details":    schemaErr.Errors,
			"request_id": middleware.GetRequestID(r.Context()),
		})
		return
	}
	s.errorResponse(w, r, status, publicMessage(err, status))
}

// extractClientID extracts the client identifier from the request.
// Only RemoteAddr is trusted; forwarding headers are ignored.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":      "rate_limit_exceeded",
		"message":    "Rate limit exceeded. Please try again later.",
		"limit":      info.Limit,
		"remaining":  info.Remaining,
		"request_id": middleware.GetRequestID(r.Context()),
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded", map[string]interface{}{
		"client": s.extractClientID(r),
		"path":   r.URL.Path,
		"limit":  info.Limit,
	})
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
