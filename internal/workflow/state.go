package workflow

import "strings"

// State is one of the closed set of workflow states
type State string

// Workflow states. StateEnd is the implicit terminal synchronization point.
const (
	StateIntake       State = "INTAKE"
	StateAnalyze      State = "ANALYZE"
	StateExpand       State = "EXPAND"
	StateOutlineLite  State = "OUTLINE_LITE"
	StatePresent      State = "PRESENT"
	StateWaitDecision State = "WAIT_DECISION"
	StateApproved     State = "APPROVED"
	StateEnd          State = "END"
)

// Action is a caller-supplied decision on a presented proposal
type Action string

// Decision actions. ActionNone means a plain status read.
const (
	ActionNone    Action = ""
	ActionEdit    Action = "edit"
	ActionApprove Action = "approve"
	ActionReset   Action = "reset"
)

// ParseAction normalizes a caller-supplied action string. Only edit, approve
// and reset are accepted, case-insensitively.
func ParseAction(action string) (Action, error) {
	switch Action(strings.ToLower(action)) {
	case ActionEdit:
		return ActionEdit, nil
	case ActionApprove:
		return ActionApprove, nil
	case ActionReset:
		return ActionReset, nil
	default:
		return ActionNone, &InvalidActionError{Action: action}
	}
}

// transition is the pure transition function of the state machine. Only
// WaitDecision routes on the pending action; every other edge is
// unconditional.
func transition(from State, action Action) State {
	switch from {
	case StateIntake:
		return StateAnalyze
	case StateAnalyze:
		return StateExpand
	case StateExpand:
		return StateOutlineLite
	case StateOutlineLite:
		return StatePresent
	case StatePresent:
		return StateWaitDecision
	case StateWaitDecision:
		switch action {
		case ActionEdit:
			return StateAnalyze
		case ActionApprove:
			return StateApproved
		case ActionReset:
			return StateIntake
		default:
			return StateEnd
		}
	case StateApproved:
		return StateEnd
	default:
		return StateEnd
	}
}
