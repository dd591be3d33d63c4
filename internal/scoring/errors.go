package scoring

import "fmt"

// ExternalCallError wraps a failure of an outbound embedding or completion
// call, or a structured response that could not be parsed after repair. It
// aborts the in-flight scoring attempt; no partial envelope is returned.
type ExternalCallError struct {
	Stage int
	Op    string
	Err   error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("stage %d: %s: %v", e.Stage, e.Op, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

func newExternalCallError(stage int, op string, err error) *ExternalCallError {
	return &ExternalCallError{Stage: stage, Op: op, Err: err}
}
