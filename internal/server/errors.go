package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/persona-screener/internal/persona"
	"github.com/jonathan/persona-screener/internal/scoring"
)

// ErrNotFound indicates a requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Persona invariant violations are client errors; provider failures map to
// 502 because the upstream call, not this service, failed.
func HTTPStatus(err error) int {
	var notFound *ErrNotFound
	var requestErr *ErrValidation
	var personaErr *persona.ValidationError
	var callErr *scoring.ExternalCallError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &requestErr), errors.As(err, &personaErr):
		return http.StatusBadRequest
	case errors.As(err, &callErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
