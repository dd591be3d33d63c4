package persona

import (
	"fmt"
	"strings"
)

// ValidationError indicates a persona that violates a structural invariant.
// It is raised before any outbound provider call is made.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("persona validation failed: %s", e.Issues[0])
	}
	return fmt.Sprintf("persona validation failed: %s", strings.Join(e.Issues, "; "))
}

// newValidationError formats a single-issue validation error.
func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Issues: []string{fmt.Sprintf(format, args...)}}
}
