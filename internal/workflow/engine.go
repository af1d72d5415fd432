// Package workflow implements the proposal state machine that sequences
// analysis, expansion and outlining around a human decision loop. It is the
// only writer of session state; each invocation loads the session, drives the
// machine to a synchronization point and persists the result.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/novel-planner/internal/db"
	"github.com/jonathan/novel-planner/internal/generate"
	"github.com/jonathan/novel-planner/internal/types"
)

// Engine drives the proposal state machine for one session at a time
type Engine struct {
	store db.Store
	gen   generate.Generator
}

// NewEngine creates a workflow engine over a session store and a generator
func NewEngine(store db.Store, gen generate.Generator) *Engine {
	return &Engine{store: store, gen: gen}
}

// sessionState is the in-flight mirror of one session while the machine runs.
// suggestions and openQuestions are ephemeral: folded into the proposal at
// OutlineLite, never persisted on their own.
type sessionState struct {
	sessionID     string
	rawText       string
	spec          *types.RequirementSpec
	proposal      *types.ProposalPackage
	status        types.ProposalStatus
	version       int
	lastAction    Action
	editText      string
	suggestions   []string
	openQuestions []string
}

// RunProposal advances a session to a presentable proposal. Re-running on a
// session that already holds a proposal with no pending action is a no-op
// with respect to persisted state: the stored proposal is returned without
// invoking generation or bumping the version.
func (e *Engine) RunProposal(ctx context.Context, sessionID string) (*types.ProposalPackage, error) {
	st, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Stale pending actions never re-trigger generation on a plain read.
	st.lastAction = ActionNone
	st.editText = ""

	if st.proposal != nil {
		return st.proposal, nil
	}

	if err := e.drive(ctx, st, StateIntake); err != nil {
		return nil, err
	}
	if st.proposal == nil {
		return nil, &ContractError{Message: "proposal generation did not produce output"}
	}
	return st.proposal, nil
}

// ApplyDecision applies an edit/approve/reset decision to a session and
// drives the machine from its decision point.
func (e *Engine) ApplyDecision(ctx context.Context, sessionID, action, text string) (*types.ProposalPackage, error) {
	act, err := ParseAction(action)
	if err != nil {
		return nil, err
	}

	st, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.lastAction = act
	st.editText = text

	if err := e.drive(ctx, st, StateWaitDecision); err != nil {
		return nil, err
	}
	if st.proposal == nil {
		return nil, &ContractError{Message: "decision did not produce output"}
	}
	return st.proposal, nil
}

// drive runs the machine from start until the terminal state
func (e *Engine) drive(ctx context.Context, st *sessionState, start State) error {
	state := start
	for state != StateEnd {
		if err := e.enter(ctx, state, st); err != nil {
			return err
		}
		state = transition(state, st.lastAction)
	}
	return nil
}

// enter executes the behavior of one state
func (e *Engine) enter(ctx context.Context, state State, st *sessionState) error {
	switch state {
	case StateIntake:
		return e.intake(st)
	case StateAnalyze:
		return e.analyze(ctx, st)
	case StateExpand:
		return e.expand(ctx, st)
	case StateOutlineLite:
		return e.outlineLite(ctx, st)
	case StatePresent:
		return e.present(ctx, st)
	case StateWaitDecision:
		return nil // pure synchronization point; routing happens in transition
	case StateApproved:
		return e.approved(ctx, st)
	default:
		return &ContractError{Message: fmt.Sprintf("unknown workflow state: %s", state)}
	}
}

// intake clears the session back to scratch when a reset is pending,
// otherwise passes through untouched.
func (e *Engine) intake(st *sessionState) error {
	if st.lastAction == ActionReset {
		st.spec = nil
		st.proposal = nil
		st.status = types.StatusNew
		st.version = 0
		st.lastAction = ActionNone
		st.editText = ""
	}
	return nil
}

// analyze appends pending edit text to the raw requirement and always re-runs
// full analysis over the current text. Editing bumps the version before
// regeneration.
func (e *Engine) analyze(ctx context.Context, st *sessionState) error {
	if st.lastAction == ActionEdit {
		patch := strings.TrimSpace(st.editText)
		st.rawText = strings.TrimSpace(st.rawText + "\n" + patch)
		st.version++
		st.lastAction = ActionNone
		st.editText = ""
	}

	spec, err := generate.AnalyzeRequirement(ctx, e.gen, st.rawText)
	if err != nil {
		return err
	}
	st.spec = spec
	return nil
}

func (e *Engine) expand(ctx context.Context, st *sessionState) error {
	if st.spec == nil {
		return &ContractError{Message: "requirement spec missing before EXPAND"}
	}
	expanded, err := generate.ExpandSpec(ctx, e.gen, st.spec)
	if err != nil {
		return err
	}
	st.suggestions = expanded.ExpansionSuggestions
	st.openQuestions = expanded.OpenQuestions
	return nil
}

// outlineLite assembles a fresh proposal from spec + expansion + outline and
// adopts its version as the session's version.
func (e *Engine) outlineLite(ctx context.Context, st *sessionState) error {
	if st.spec == nil {
		return &ContractError{Message: "requirement spec missing before OUTLINE_LITE"}
	}
	outline, err := generate.OutlineLiteFor(ctx, e.gen, st.spec)
	if err != nil {
		return err
	}

	st.proposal = &types.ProposalPackage{
		RequirementSpec:      *st.spec,
		ExpansionSuggestions: st.suggestions,
		OutlineLite:          *outline,
		OpenQuestions:        st.openQuestions,
		Version:              max(1, st.version),
		Status:               types.StatusNeedsConfirmation,
		ChangeSummary:        types.DefaultChangeSummary,
	}
	st.status = types.StatusNeedsConfirmation
	st.version = st.proposal.Version
	return nil
}

// present is the durability checkpoint before yielding control to the caller
func (e *Engine) present(ctx context.Context, st *sessionState) error {
	if st.proposal == nil {
		return &ContractError{Message: "proposal missing before PRESENT"}
	}
	return e.persist(ctx, st)
}

// approved marks the proposal approved, synthesizing one in-line when a
// session is approved without ever reaching PRESENT. Terminal for this
// invocation.
func (e *Engine) approved(ctx context.Context, st *sessionState) error {
	if st.proposal == nil {
		spec, err := generate.AnalyzeRequirement(ctx, e.gen, st.rawText)
		if err != nil {
			return err
		}
		expanded, err := generate.ExpandSpec(ctx, e.gen, spec)
		if err != nil {
			return err
		}
		outline, err := generate.OutlineLiteFor(ctx, e.gen, spec)
		if err != nil {
			return err
		}
		st.spec = spec
		st.proposal = &types.ProposalPackage{
			RequirementSpec:      *spec,
			ExpansionSuggestions: expanded.ExpansionSuggestions,
			OutlineLite:          *outline,
			OpenQuestions:        expanded.OpenQuestions,
			Version:              max(1, st.version),
			Status:               types.StatusApproved,
			ChangeSummary:        types.DefaultChangeSummary,
		}
		st.version = st.proposal.Version
	} else {
		st.proposal.Status = types.StatusApproved
	}
	st.status = types.StatusApproved
	return e.persist(ctx, st)
}

// load rebuilds in-flight state from the persisted session
func (e *Engine) load(ctx context.Context, sessionID string) (*sessionState, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, &NotFoundError{SessionID: sessionID}
	}

	st := &sessionState{
		sessionID:  sessionID,
		rawText:    sess.RequirementText,
		status:     types.ProposalStatus(sess.Status),
		version:    sess.Version,
		lastAction: Action(sess.LastUserAction),
		editText:   sess.EditText,
	}
	if len(sess.Spec) > 0 {
		var spec types.RequirementSpec
		if err := json.Unmarshal(sess.Spec, &spec); err != nil {
			return nil, fmt.Errorf("failed to decode stored spec: %w", err)
		}
		st.spec = &spec
	}
	if len(sess.Proposal) > 0 {
		var proposal types.ProposalPackage
		if err := json.Unmarshal(sess.Proposal, &proposal); err != nil {
			return nil, fmt.Errorf("failed to decode stored proposal: %w", err)
		}
		st.proposal = &proposal
	}
	return st, nil
}

// persist writes the full workflow-owned field set back to the store
func (e *Engine) persist(ctx context.Context, st *sessionState) error {
	specJSON, err := marshalOptional(st.spec)
	if err != nil {
		return fmt.Errorf("failed to encode spec: %w", err)
	}
	proposalJSON, err := marshalOptional(st.proposal)
	if err != nil {
		return fmt.Errorf("failed to encode proposal: %w", err)
	}

	return e.store.UpdateSession(ctx, st.sessionID, db.SessionUpdate{
		RequirementText: db.String(st.rawText),
		Spec:            db.Raw(specJSON),
		Proposal:        db.Raw(proposalJSON),
		Status:          db.String(string(st.status)),
		Version:         db.Int(st.version),
		LastUserAction:  db.String(string(st.lastAction)),
		EditText:        db.String(st.editText),
	})
}

func marshalOptional[T any](v *T) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
