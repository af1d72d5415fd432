package generate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/novel-planner/internal/prompts"
	"github.com/jonathan/novel-planner/internal/schemas"
	"github.com/jonathan/novel-planner/internal/types"
)

// AnalyzeRequirement produces a RequirementSpec from raw requirement text
func AnalyzeRequirement(ctx context.Context, g Generator, rawText string) (*types.RequirementSpec, error) {
	payload, err := g.GenerateJSON(ctx, prompts.System(), prompts.Analyze(rawText), schemas.TargetRequirementSpec)
	if err != nil {
		return nil, err
	}
	var spec types.RequirementSpec
	if err := decode(payload, &spec, schemas.TargetRequirementSpec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ExpandSpec produces expansion suggestions and open questions for a spec
func ExpandSpec(ctx context.Context, g Generator, spec *types.RequirementSpec) (*types.ExpansionResult, error) {
	payload, err := g.GenerateJSON(ctx, prompts.System(), prompts.Expand(spec), schemas.TargetExpansionResult)
	if err != nil {
		return nil, err
	}
	var result types.ExpansionResult
	if err := decode(payload, &result, schemas.TargetExpansionResult); err != nil {
		return nil, err
	}
	return &result, nil
}

// OutlineLiteFor produces the eight-beat lite outline for a spec
func OutlineLiteFor(ctx context.Context, g Generator, spec *types.RequirementSpec) (*types.OutlineLite, error) {
	payload, err := g.GenerateJSON(ctx, prompts.System(), prompts.OutlineLite(spec), schemas.TargetOutlineLite)
	if err != nil {
		return nil, err
	}
	var outline types.OutlineLite
	if err := decode(payload, &outline, schemas.TargetOutlineLite); err != nil {
		return nil, err
	}
	return &outline, nil
}

// FreezeBible generates the story bible from the spec and approved proposal
func FreezeBible(ctx context.Context, g Generator, spec *types.RequirementSpec, proposal *types.ProposalPackage) (*types.StoryBible, error) {
	payload, err := g.GenerateJSON(ctx, prompts.System(), prompts.FreezeBible(spec, proposal), schemas.TargetStoryBible)
	if err != nil {
		return nil, err
	}
	var bible types.StoryBible
	if err := decode(payload, &bible, schemas.TargetStoryBible); err != nil {
		return nil, err
	}
	return &bible, nil
}

// PlanBook generates the full outline from the frozen bible and the spec
func PlanBook(ctx context.Context, g Generator, bible *types.StoryBible, spec *types.RequirementSpec) (*types.OutlineFull, error) {
	payload, err := g.GenerateJSON(ctx, prompts.System(), prompts.PlanBook(bible, spec), schemas.TargetOutlineFull)
	if err != nil {
		return nil, err
	}
	var outline types.OutlineFull
	if err := decode(payload, &outline, schemas.TargetOutlineFull); err != nil {
		return nil, err
	}
	return &outline, nil
}

// decode unmarshals a payload that already passed schema validation. A failure
// here means the Go struct and the schema disagree, which is a programming
// error rather than model misbehavior.
func decode(payload []byte, v any, target schemas.Target) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("validated %s payload did not decode: %w", target, err)
	}
	return nil
}
