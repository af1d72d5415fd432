package plan

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/novel-planner/internal/db"
	"github.com/jonathan/novel-planner/internal/generate"
	"github.com/jonathan/novel-planner/internal/schemas"
	"github.com/jonathan/novel-planner/internal/types"
	"github.com/jonathan/novel-planner/internal/workflow"
)

type countingGenerator struct {
	inner generate.Generator
	calls int
}

func (g *countingGenerator) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, target schemas.Target) ([]byte, error) {
	g.calls++
	return g.inner.GenerateJSON(ctx, systemPrompt, userPrompt, target)
}

// approvedSession creates a session and walks it through proposal and approval.
func approvedSession(t *testing.T, store *db.MemoryStore, gen generate.Generator, text string) string {
	t.Helper()
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, text)
	require.NoError(t, err)

	engine := workflow.NewEngine(store, gen)
	_, err = engine.RunProposal(ctx, sessionID)
	require.NoError(t, err)
	_, err = engine.ApplyDecision(ctx, sessionID, "approve", "")
	require.NoError(t, err)
	return sessionID
}

func TestGetRequiresApproval(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	gen := generate.NewSynthetic()
	svc := NewService(store, gen)

	sessionID, err := store.CreateSession(ctx, "Write a dark magic school story")
	require.NoError(t, err)

	_, err = svc.Get(ctx, sessionID, false)
	require.Error(t, err)
	var conflict *workflow.ConflictError
	assert.ErrorAs(t, err, &conflict)

	// A proposal alone is still not enough.
	engine := workflow.NewEngine(store, gen)
	_, err = engine.RunProposal(ctx, sessionID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, sessionID, false)
	assert.ErrorAs(t, err, &conflict)
}

func TestGetUnknownSession(t *testing.T) {
	svc := NewService(db.NewMemoryStore(), generate.NewSynthetic())

	_, err := svc.Get(context.Background(), "no-such-session", false)
	require.Error(t, err)
	var notFound *workflow.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestGetGeneratesOnceAndCaches(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	gen := &countingGenerator{inner: generate.NewSynthetic()}
	svc := NewService(store, gen)

	sessionID := approvedSession(t, store, gen, "Write a dark magic school story")
	callsBefore := gen.calls

	first, err := svc.Get(ctx, sessionID, false)
	require.NoError(t, err)
	assert.Equal(t, callsBefore+2, gen.calls) // bible, then outline
	assert.Equal(t, 1, first.BibleVersion)
	assert.Equal(t, 1, first.OutlineVersion)
	assert.Len(t, first.OutlineFull.Chapters, types.ChapterBeatCount)
	assert.Equal(t, "fantasy", first.Bible.Genre)
	require.NoError(t, first.ValidateCrossReferences())

	second, err := svc.Get(ctx, sessionID, false)
	require.NoError(t, err)
	assert.Equal(t, callsBefore+2, gen.calls, "cached plan must not regenerate")
	assert.Equal(t, first, second)

	// The plan is persisted on the session.
	sess, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Bible)
	assert.NotEmpty(t, sess.OutlineFull)
	assert.Equal(t, 1, sess.BibleVersion)
	assert.Equal(t, 1, sess.OutlineVersion)
}

func TestGetForceIncrementsVersions(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	gen := &countingGenerator{inner: generate.NewSynthetic()}
	svc := NewService(store, gen)

	sessionID := approvedSession(t, store, gen, "Plan a short thriller")

	first, err := svc.Get(ctx, sessionID, false)
	require.NoError(t, err)
	callsAfterFirst := gen.calls

	forced, err := svc.Get(ctx, sessionID, true)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst+2, gen.calls, "force must regenerate")
	assert.Equal(t, first.BibleVersion+1, forced.BibleVersion)
	assert.Equal(t, first.OutlineVersion+1, forced.OutlineVersion)

	sess, err := store.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.BibleVersion)
	assert.Equal(t, 2, sess.OutlineVersion)
}

func TestGetMissingProposalPayload(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	svc := NewService(store, generate.NewSynthetic())

	sessionID, err := store.CreateSession(ctx, "Plan a novel")
	require.NoError(t, err)
	// Approved status without the proposal payload behind it.
	err = store.UpdateSession(ctx, sessionID, db.SessionUpdate{
		Status: db.String(string(types.StatusApproved)),
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, sessionID, false)
	require.Error(t, err)
	var conflict *workflow.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestGetServesStoredPlanVerbatim(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	gen := &countingGenerator{inner: generate.NewSynthetic()}
	svc := NewService(store, gen)

	sessionID := approvedSession(t, store, gen, "Plan a novel")

	// Hand-write a stored plan; the cache check is on presence alone.
	bible := types.StoryBible{TitleWorking: "Stored Title", Genre: "mystery"}
	bibleJSON, err := json.Marshal(bible)
	require.NoError(t, err)
	outline := types.OutlineFull{Ending: "stored ending"}
	outlineJSON, err := json.Marshal(outline)
	require.NoError(t, err)
	err = store.UpdateSession(ctx, sessionID, db.SessionUpdate{
		Bible:          db.Raw(bibleJSON),
		OutlineFull:    db.Raw(outlineJSON),
		BibleVersion:   db.Int(4),
		OutlineVersion: db.Int(4),
	})
	require.NoError(t, err)
	callsBefore := gen.calls

	pkg, err := svc.Get(ctx, sessionID, false)
	require.NoError(t, err)
	assert.Equal(t, callsBefore, gen.calls)
	assert.Equal(t, "Stored Title", pkg.Bible.TitleWorking)
	assert.Equal(t, "stored ending", pkg.OutlineFull.Ending)
	assert.Equal(t, 4, pkg.BibleVersion)
	assert.Equal(t, 4, pkg.OutlineVersion)
}
