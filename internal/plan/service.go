// Package plan expands an approved session into its materialized plan: the
// frozen story bible and the full outline. The operation is stateless per
// call and gated on session status; stored plans are served as-is until a
// forced regeneration.
package plan

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/novel-planner/internal/db"
	"github.com/jonathan/novel-planner/internal/generate"
	"github.com/jonathan/novel-planner/internal/types"
	"github.com/jonathan/novel-planner/internal/workflow"
)

// Service retrieves or generates plan packages for approved sessions
type Service struct {
	store db.Store
	gen   generate.Generator
	group singleflight.Group
}

// NewService creates a plan service over a session store and a generator
func NewService(store db.Store, gen generate.Generator) *Service {
	return &Service{store: store, gen: gen}
}

// Get returns the plan for an approved session. A stored bible and outline
// are returned unchanged unless force is set; otherwise one generation pass
// produces and persists both. Concurrent duplicate requests for the same
// session collapse into a single pass.
func (s *Service) Get(ctx context.Context, sessionID string, force bool) (*types.PlanPackage, error) {
	key := fmt.Sprintf("%s:%t", sessionID, force)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.get(ctx, sessionID, force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.PlanPackage), nil
}

func (s *Service) get(ctx context.Context, sessionID string, force bool) (*types.PlanPackage, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, &workflow.NotFoundError{SessionID: sessionID}
	}
	if sess.Status != string(types.StatusApproved) {
		return nil, &workflow.ConflictError{Message: "session is not approved"}
	}

	// Cache hit: serve the stored plan without any generation call.
	// Presence alone is checked, not version freshness against the proposal.
	if !force && len(sess.Bible) > 0 && len(sess.OutlineFull) > 0 {
		return decodeStored(sess)
	}

	if len(sess.Proposal) == 0 || len(sess.Spec) == 0 {
		return nil, &workflow.ConflictError{Message: "approved proposal payload missing"}
	}

	var proposal types.ProposalPackage
	if err := json.Unmarshal(sess.Proposal, &proposal); err != nil {
		return nil, fmt.Errorf("failed to decode stored proposal: %w", err)
	}
	spec := proposal.RequirementSpec

	bible, err := generate.FreezeBible(ctx, s.gen, &spec, &proposal)
	if err != nil {
		return nil, err
	}
	outline, err := generate.PlanBook(ctx, s.gen, bible, &spec)
	if err != nil {
		return nil, err
	}

	bibleVersion := orOne(sess.BibleVersion)
	outlineVersion := orOne(sess.OutlineVersion)
	if force {
		bibleVersion++
		outlineVersion++
	}

	bibleJSON, err := json.Marshal(bible)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bible: %w", err)
	}
	outlineJSON, err := json.Marshal(outline)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outline: %w", err)
	}

	err = s.store.UpdateSession(ctx, sessionID, db.SessionUpdate{
		Bible:          db.Raw(bibleJSON),
		OutlineFull:    db.Raw(outlineJSON),
		BibleVersion:   db.Int(bibleVersion),
		OutlineVersion: db.Int(outlineVersion),
	})
	if err != nil {
		return nil, err
	}

	return &types.PlanPackage{
		Bible:          *bible,
		OutlineFull:    *outline,
		BibleVersion:   bibleVersion,
		OutlineVersion: outlineVersion,
	}, nil
}

func decodeStored(sess *db.Session) (*types.PlanPackage, error) {
	var pkg types.PlanPackage
	if err := json.Unmarshal(sess.Bible, &pkg.Bible); err != nil {
		return nil, fmt.Errorf("failed to decode stored bible: %w", err)
	}
	if err := json.Unmarshal(sess.OutlineFull, &pkg.OutlineFull); err != nil {
		return nil, fmt.Errorf("failed to decode stored outline: %w", err)
	}
	pkg.BibleVersion = orOne(sess.BibleVersion)
	pkg.OutlineVersion = orOne(sess.OutlineVersion)
	return &pkg, nil
}

func orOne(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}
