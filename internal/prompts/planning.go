package prompts

import (
	"encoding/json"

	"github.com/jonathan/novel-planner/internal/types"
)

// System returns the shared system instruction for all planning calls
func System() string {
	return MustGet("base-system")
}

// Analyze builds the user instruction for requirement analysis
func Analyze(rawText string) string {
	return Format(MustGet("analyze"), map[string]string{"RawText": rawText})
}

// Expand builds the user instruction for expansion suggestions
func Expand(spec *types.RequirementSpec) string {
	return Format(MustGet("expand"), map[string]string{"Spec": marshalIndent(spec)})
}

// OutlineLite builds the user instruction for the eight-beat lite outline
func OutlineLite(spec *types.RequirementSpec) string {
	return Format(MustGet("outline-lite"), map[string]string{"Spec": marshalIndent(spec)})
}

// FreezeBible builds the user instruction for story bible generation
func FreezeBible(spec *types.RequirementSpec, proposal *types.ProposalPackage) string {
	return Format(MustGet("freeze-bible"), map[string]string{
		"Spec":     marshalIndent(spec),
		"Proposal": marshalIndent(proposal),
	})
}

// PlanBook builds the user instruction for full outline generation
func PlanBook(bible *types.StoryBible, spec *types.RequirementSpec) string {
	return Format(MustGet("plan-book"), map[string]string{
		"Bible": marshalIndent(bible),
		"Spec":  marshalIndent(spec),
	})
}

// Repair builds the retry instruction carrying the previous invalid output
// and the validation error that rejected it.
func Repair(target, validationError, previousOutput string) string {
	return Format(MustGet("repair"), map[string]string{
		"Target":   target,
		"Error":    validationError,
		"Previous": previousOutput,
	})
}

func marshalIndent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
