package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/persona-screener/internal/persona"
	"github.com/jonathan/persona-screener/internal/scoring"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "not found",
			err:  &ErrNotFound{Resource: "persona", ID: uuid.New()},
			want: http.StatusNotFound,
		},
		{
			name: "request validation",
			err:  &ErrValidation{Field: "document", Message: "required"},
			want: http.StatusBadRequest,
		},
		{
			name: "persona invariant violation",
			err:  &persona.ValidationError{Issues: []string{"category weights sum to 95, not 100"}},
			want: http.StatusBadRequest,
		},
		{
			name: "provider failure",
			err:  &scoring.ExternalCallError{Stage: 3, Op: "category scoring", Err: errors.New("deadline exceeded")},
			want: http.StatusBadGateway,
		},
		{
			name: "wrapped provider failure",
			err:  fmt.Errorf("scoring: %w", &scoring.ExternalCallError{Stage: 1, Op: "chunk embedding", Err: errors.New("quota")}),
			want: http.StatusBadGateway,
		},
		{
			name: "unknown error",
			err:  errors.New("something broke"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
