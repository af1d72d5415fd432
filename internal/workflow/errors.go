package workflow

import "fmt"

// NotFoundError indicates an unknown session id. Surfaced verbatim, never retried.
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ConflictError indicates an operation invalid for the session's current
// status, or a missing payload a precondition guarantees.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InvalidActionError indicates an unsupported decision action from the caller
type InvalidActionError struct {
	Action string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("unsupported action: %s", e.Action)
}

// ContractError indicates a programming-contract violation, such as a missing
// spec where an invariant guarantees one. Not user-recoverable.
type ContractError struct {
	Message string
}

func (e *ContractError) Error() string {
	return e.Message
}
