package generate

import (
	"fmt"

	"github.com/jonathan/novel-planner/internal/schemas"
)

// GenerationError indicates the model never produced a payload that passed
// closed-schema validation within the retry budget. It carries the last
// validation error and the offending raw output.
type GenerationError struct {
	Target    schemas.Target
	Attempts  int
	LastError string
	RawOutput string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate valid JSON for %s after %d attempts: %s", e.Target, e.Attempts, e.LastError)
}

// TransportError indicates the generation endpoint itself failed: unreachable,
// non-2xx, malformed envelope, or a non-text payload. It is never retried
// inside a generation call.
type TransportError struct {
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation transport failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation transport failed: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
