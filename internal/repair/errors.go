package repair

import "fmt"

// UnrepairableError indicates a response that could not be coerced into valid JSON
// after all repair strategies were exhausted.
type UnrepairableError struct {
	Raw string
}

func (e *UnrepairableError) Error() string {
	preview := e.Raw
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	return fmt.Sprintf("response is not repairable JSON: %q", preview)
}
