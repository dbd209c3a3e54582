// Package server provides the HTTP REST API for the resume engine.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-markup/internal/db"
	"github.com/jonathan/resume-markup/internal/fetch"
	"github.com/jonathan/resume-markup/internal/normalize"
	"github.com/jonathan/resume-markup/internal/schemas"
	"github.com/jonathan/resume-markup/internal/templates"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the addressed resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		normalizeErr  *normalize.Error
		loadErr       *normalize.LoadError
		notFoundErr   *ErrNotFound
		fetchErr      *fetch.Error
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &schemaErr),
		errors.As(err, &normalizeErr), errors.As(err, &loadErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.Is(err, db.ErrRenderNotFound):
		return http.StatusNotFound
	case errors.Is(err, templates.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text returned to clients. Server-side failures
// are not described beyond their category.
func publicMessage(err error, status int) string {
	switch status {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusServiceUnavailable:
		return "template store unavailable"
	default:
		return err.Error()
	}
}
