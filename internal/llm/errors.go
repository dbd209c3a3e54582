package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FailureReason classifies why the AI collaborator could not be used
type FailureReason string

// Failure reasons attached to fallback results
const (
	ReasonQuota       FailureReason = "ai_quota"
	ReasonRateLimit   FailureReason = "ai_rate_limit"
	ReasonInvalidKey  FailureReason = "ai_invalid_key"
	ReasonUnavailable FailureReason = "ai_unavailable"
	ReasonMalformed   FailureReason = "ai_malformed_response"
)

// ProviderError is a failed call to the provider, already classified
type ProviderError struct {
	Provider Provider
	Model    string
	Reason   FailureReason
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error (%s, model %s): %v", e.Provider, e.Reason, e.Model, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ParseError means a response could not be decoded even after repair
type ParseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ClassifyFailure maps an error from the AI collaborator to a reason.
// Structured HTTP status codes win; message matching covers gRPC-style and
// wrapped errors. Anything unrecognised is ReasonUnavailable.
func ClassifyFailure(err error) FailureReason {
	if err == nil {
		return ""
	}

	var perr *ProviderError
	if errors.As(err, &perr) && perr.Reason != "" {
		return perr.Reason
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return ReasonMalformed
	}

	msg := strings.ToLower(err.Error())

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests:
			if strings.Contains(msg, "quota") {
				return ReasonQuota
			}
			return ReasonRateLimit
		case http.StatusUnauthorized, http.StatusForbidden:
			return ReasonInvalidKey
		case http.StatusBadRequest:
			if isKeyMessage(msg) {
				return ReasonInvalidKey
			}
		}
		return ReasonUnavailable
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.ResourceExhausted:
			if strings.Contains(msg, "quota") || strings.Contains(msg, "billing") {
				return ReasonQuota
			}
			return ReasonRateLimit
		case codes.Unauthenticated, codes.PermissionDenied:
			return ReasonInvalidKey
		case codes.InvalidArgument:
			if isKeyMessage(msg) {
				return ReasonInvalidKey
			}
		}
		return ReasonUnavailable
	}

	switch {
	case strings.Contains(msg, "quota"), strings.Contains(msg, "resource_exhausted") && strings.Contains(msg, "billing"):
		return ReasonQuota
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "ratelimit"),
		strings.Contains(msg, "too many requests"), strings.Contains(msg, "resource_exhausted"), strings.Contains(msg, "429"):
		return ReasonRateLimit
	case isKeyMessage(msg):
		return ReasonInvalidKey
	}
	return ReasonUnavailable
}

func isKeyMessage(msg string) bool {
	return strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthenticated") || strings.Contains(msg, "permission_denied") ||
		strings.Contains(msg, "permission denied") || strings.Contains(msg, "401") || strings.Contains(msg, "403")
}
