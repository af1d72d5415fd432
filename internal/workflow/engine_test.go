package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/novel-planner/internal/db"
	"github.com/jonathan/novel-planner/internal/generate"
	"github.com/jonathan/novel-planner/internal/schemas"
	"github.com/jonathan/novel-planner/internal/types"
)

// countingGenerator counts generation calls so tests can assert exactly when
// the model is and is not invoked.
type countingGenerator struct {
	inner generate.Generator
	calls int
}

func (g *countingGenerator) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, target schemas.Target) ([]byte, error) {
	g.calls++
	return g.inner.GenerateJSON(ctx, systemPrompt, userPrompt, target)
}

func newTestEngine(t *testing.T) (*Engine, *db.MemoryStore, *countingGenerator) {
	t.Helper()
	store := db.NewMemoryStore()
	gen := &countingGenerator{inner: generate.NewSynthetic()}
	return NewEngine(store, gen), store, gen
}

func TestRunProposalInitial(t *testing.T) {
	engine, store, gen := newTestEngine(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, "Write a dark magic school story")
	require.NoError(t, err)

	proposal, err := engine.RunProposal(ctx, sessionID)
	require.NoError(t, err)

	assert.Equal(t, types.StatusNeedsConfirmation, proposal.Status)
	assert.Equal(t, 1, proposal.Version)
	assert.Len(t, proposal.OutlineLite.ChapterBeats, types.ChapterBeatCount)
	assert.Equal(t, "fantasy", proposal.RequirementSpec.GenreHint)
	assert.Equal(t, "dark", proposal.RequirementSpec.ToneHint)
	assert.Equal(t, 3, gen.calls) // analyze, expand, outline

	// The PRESENT checkpoint persisted the full session state.
	sess, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(types.StatusNeedsConfirmation), sess.Status)
	assert.Equal(t, 1, sess.Version)
	assert.NotEmpty(t, sess.Proposal)
	assert.NotEmpty(t, sess.Spec)
}

func TestRunProposalIsIdempotent(t *testing.T) {
	engine, store, gen := newTestEngine(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, "Plan a short thriller")
	require.NoError(t, err)

	first, err := engine.RunProposal(ctx, sessionID)
	require.NoError(t, err)
	before, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	callsAfterFirst := gen.calls

	second, err := engine.RunProposal(ctx, sessionID)
	require.NoError(t, err)
	after, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, gen.calls, "re-run must not invoke generation")
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt, "re-run must not write to the store")
}

func TestEditAppendsTextAndIncrementsVersion(t *testing.T) {
	engine, store, gen := newTestEngine(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, "Plan a short thriller")
	require.NoError(t, err)

	initial, err := engine.RunProposal(ctx, sessionID)
	require.NoError(t, err)
	callsAfterInitial := gen.calls

	edited, err := engine.ApplyDecision(ctx, sessionID, "edit", "Also include first person perspective")
	require.NoError(t, err)

	assert.Equal(t, initial.Version+1, edited.Version)
	assert.Equal(t, types.StatusNeedsConfirmation, edited.Status)
	assert.NotEqual(t, initial.RequirementSpec.RawText, edited.RequirementSpec.RawText)
	assert.True(t, strings.HasSuffix(edited.RequirementSpec.RawText, "Also include first person perspective"))
	assert.Equal(t, callsAfterInitial+3, gen.calls, "edit re-runs full analysis")

	sess, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, edited.Version, sess.Version)
	assert.True(t, strings.HasSuffix(sess.RequirementText, "Also include first person perspective"))
}

func TestApproveFlipsStatusWithoutRegeneration(t *testing.T) {
	engine, store, gen := newTestEngine(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, "Plan a novel")
	require.NoError(t, err)

	initial, err := engine.RunProposal(ctx, sessionID)
	require.NoError(t, err)
	callsAfterInitial := gen.calls

	approved, err := engine.ApplyDecision(ctx, sessionID, "approve", "")
	require.NoError(t, err)

	assert.Equal(t, types.StatusApproved, approved.Status)
	assert.Equal(t, initial.Version, approved.Version)
	assert.Equal(t, initial.RequirementSpec, approved.RequirementSpec)
	assert.Equal(t, initial.OutlineLite, approved.OutlineLite)
	assert.Equal(t, callsAfterInitial, gen.calls, "approval must not regenerate an existing proposal")

	// Durably observable on a fresh load.
	sess, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(types.StatusApproved), sess.Status)
}

func TestApproveIsCaseInsensitive(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, "Plan a novel")
	require.NoError(t, err)
	_, err = engine.RunProposal(ctx, sessionID)
	require.NoError(t, err)

	approved, err := engine.ApplyDecision(ctx, sessionID, "APPROVE", "")
	require.NoError(t, err)
	assert.Equal(t, types.StatusApproved, approved.Status)
}

func TestApproveWithoutProposalSynthesizesOne(t *testing.T) {
	engine, store, gen := newTestEngine(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, "Write a hopeful space opera")
	require.NoError(t, err)

	approved, err := engine.ApplyDecision(ctx, sessionID, "approve", "")
	require.NoError(t, err)

	assert.Equal(t, types.StatusApproved, approved.Status)
	assert.Equal(t, 1, approved.Version)
	assert.Len(t, approved.OutlineLite.ChapterBeats, types.ChapterBeatCount)
	assert.Equal(t, 3, gen.calls, "in-line synthesis runs the full pipeline once")

	sess, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(types.StatusApproved), sess.Status)
	assert.NotEmpty(t, sess.Proposal)
}

func TestResetRebuildsFromScratch(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, "Plan a short thriller")
	require.NoError(t, err)
	_, err = engine.RunProposal(ctx, sessionID)
	require.NoError(t, err)

	edited, err := engine.ApplyDecision(ctx, sessionID, "edit", "Add a second timeline")
	require.NoError(t, err)
	require.Equal(t, 2, edited.Version)

	reset, err := engine.ApplyDecision(ctx, sessionID, "reset", "")
	require.NoError(t, err)

	// The version counter starts over; the accumulated raw text survives a
	// reset, only the derived artifacts are cleared and rebuilt.
	assert.Equal(t, 1, reset.Version)
	assert.Equal(t, types.StatusNeedsConfirmation, reset.Status)

	sess, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Version)
}

func TestApplyDecisionRejectsUnsupportedAction(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, "Plan a novel")
	require.NoError(t, err)

	_, err = engine.ApplyDecision(ctx, sessionID, "destroy", "")
	require.Error(t, err)

	var invalidErr *InvalidActionError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.RunProposal(ctx, "no-such-session")
	require.Error(t, err)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = engine.ApplyDecision(ctx, "no-such-session", "approve", "")
	require.Error(t, err)
	assert.ErrorAs(t, err, &notFound)
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   State
		action Action
		want   State
	}{
		{"intake to analyze", StateIntake, ActionNone, StateAnalyze},
		{"analyze to expand", StateAnalyze, ActionNone, StateExpand},
		{"expand to outline", StateExpand, ActionNone, StateOutlineLite},
		{"outline to present", StateOutlineLite, ActionNone, StatePresent},
		{"present to wait", StatePresent, ActionNone, StateWaitDecision},
		{"wait routes edit", StateWaitDecision, ActionEdit, StateAnalyze},
		{"wait routes approve", StateWaitDecision, ActionApprove, StateApproved},
		{"wait routes reset", StateWaitDecision, ActionReset, StateIntake},
		{"wait with no action ends", StateWaitDecision, ActionNone, StateEnd},
		{"approved is terminal", StateApproved, ActionNone, StateEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transition(tt.from, tt.action))
		})
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input     string
		want      Action
		wantError bool
	}{
		{"edit", ActionEdit, false},
		{"Approve", ActionApprove, false},
		{"RESET", ActionReset, false},
		{"", ActionNone, true},
		{"publish", ActionNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAction(tt.input)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
