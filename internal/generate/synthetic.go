package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/novel-planner/internal/schemas"
	"github.com/jonathan/novel-planner/internal/types"
)

// Synthetic produces deterministic, schema-valid output from simple keyword
// heuristics on the prompt text. It performs no network calls, which makes
// fully offline operation and reproducible tests possible.
type Synthetic struct{}

// NewSynthetic creates the offline generation strategy
func NewSynthetic() *Synthetic {
	return &Synthetic{}
}

// GenerateJSON implements Generator
func (s *Synthetic) GenerateJSON(_ context.Context, _ string, userPrompt string, target schemas.Target) ([]byte, error) {
	switch target {
	case schemas.TargetRequirementSpec:
		return marshal(s.requirementSpec(inputText(userPrompt)))
	case schemas.TargetExpansionResult:
		return marshal(s.expansionResult(userPrompt))
	case schemas.TargetOutlineLite:
		return marshal(s.outlineLite(userPrompt))
	case schemas.TargetStoryBible:
		return marshal(s.storyBible(userPrompt))
	case schemas.TargetOutlineFull:
		return marshal(s.outlineFull(userPrompt))
	default:
		return nil, fmt.Errorf("unsupported generation target: %s", target)
	}
}

func (s *Synthetic) requirementSpec(text string) *types.RequirementSpec {
	lowered := strings.ToLower(text)

	genre := "general fiction"
	if strings.Contains(lowered, "magic") {
		genre = "fantasy"
	} else if strings.Contains(lowered, "detective") || strings.Contains(lowered, "murder") {
		genre = "mystery"
	}

	tone := "balanced"
	if strings.Contains(lowered, "dark") {
		tone = "dark"
	} else if strings.Contains(lowered, "hope") {
		tone = "hopeful"
	}

	var constraints []string
	if strings.Contains(lowered, "first person") {
		constraints = append(constraints, "Narrative voice: first person")
	}
	if strings.Contains(lowered, "short") {
		constraints = append(constraints, "Keep chapter beats concise")
	}
	if constraints == nil {
		constraints = []string{}
	}

	top := text
	if len(top) > 80 {
		top = top[:80]
	}
	if top == "" {
		top = "Untitled project"
	}

	return &types.RequirementSpec{
		RawText:     text,
		Objective:   "Develop a novel plan for: " + top,
		GenreHint:   genre,
		ToneHint:    tone,
		Constraints: constraints,
	}
}

func (s *Synthetic) expansionResult(prompt string) *types.ExpansionResult {
	genre := promptField(prompt, "genre_hint", "general fiction")
	tone := promptField(prompt, "tone_hint", "balanced")
	return &types.ExpansionResult{
		ExpansionSuggestions: []string{
			fmt.Sprintf("Clarify protagonist arc for a %s story.", genre),
			"Define the primary conflict escalation points.",
			fmt.Sprintf("Lock a consistent %s voice for narration.", tone),
		},
		OpenQuestions: []string{
			"Who is the ideal target readership persona?",
			"Standalone or series potential?",
			"Any hard constraints on setting or POV?",
		},
	}
}

func (s *Synthetic) outlineLite(prompt string) *types.OutlineLite {
	genre := promptField(prompt, "genre_hint", "general fiction")
	return &types.OutlineLite{
		ChapterBeats: []string{
			fmt.Sprintf("Chapter 1: Introduce premise grounded in '%s'.", genre),
			"Chapter 2: Catalyst disrupts the protagonist's routine.",
			"Chapter 3: First commitment to the central conflict.",
			"Chapter 4: Rising stakes with external and internal pressure.",
			"Chapter 5: Midpoint reversal reframes the objective.",
			"Chapter 6: Complications narrow available options.",
			"Chapter 7: Climax confrontation and decisive choice.",
			"Chapter 8: Resolution, fallout, and thematic closure.",
		},
	}
}

func (s *Synthetic) storyBible(prompt string) *types.StoryBible {
	genre := promptField(prompt, "genre_hint", "general fiction")
	tone := promptField(prompt, "tone_hint", "balanced")

	pov := "third person limited"
	if strings.Contains(strings.ToLower(prompt), "first person") {
		pov = "first person"
	}

	return &types.StoryBible{
		TitleWorking: "Working Title",
		Genre:        genre,
		Tone:         tone,
		POV:          pov,
		StyleGuide:   fmt.Sprintf("Maintain a %s register with concrete sensory detail and short paragraphs.", tone),
		World:        fmt.Sprintf("A grounded %s setting whose rules stay consistent with the requirement spec.", genre),
		Characters: []types.Character{
			{Name: "Protagonist", Role: "lead", Description: "Drives the central conflict.", Arc: "From reluctance to resolve."},
			{Name: "Antagonist", Role: "opposition", Description: "Embodies the story's pressure.", Arc: "From dominance to undoing."},
			{Name: "Confidant", Role: "support", Description: "Anchors the protagonist's humanity.", Arc: "From observer to participant."},
		},
		Timeline: []types.TimelineEvent{
			{Label: "Before", Description: "The status quo the catalyst will break."},
			{Label: "Catalyst", Description: "The event that starts the central conflict."},
			{Label: "Aftermath", Description: "The changed world the ending must settle."},
		},
		CanonRules: []string{
			"Established facts are never contradicted in later chapters.",
			"Every payoff is set up on the page before it lands.",
		},
	}
}

func (s *Synthetic) outlineFull(prompt string) *types.OutlineFull {
	genre := promptField(prompt, "genre", "general fiction")

	beats := []string{
		"Introduce premise and protagonist.",
		"Catalyst disrupts the protagonist's routine.",
		"First commitment to the central conflict.",
		"Rising stakes with external and internal pressure.",
		"Midpoint reversal reframes the objective.",
		"Complications narrow available options.",
		"Climax confrontation and decisive choice.",
		"Resolution, fallout, and thematic closure.",
	}

	chapters := make([]types.Chapter, 0, len(beats))
	for i, beat := range beats {
		ch := types.Chapter{
			Index:              i + 1,
			Title:              fmt.Sprintf("Chapter %d", i+1),
			Goal:               beat,
			Conflict:           "Pressure mounts against the protagonist's objective.",
			Twist:              "A complication recasts what success means.",
			Hook:               "An unresolved consequence pulls into the next chapter.",
			Locations:          []string{"Primary setting"},
			CharactersInvolved: []string{"Protagonist"},
			ForeshadowingIn:    []string{},
			ForeshadowingOut:   []string{},
		}
		chapters = append(chapters, ch)
	}
	chapters[1].ForeshadowingOut = []string{"f1"}
	chapters[6].ForeshadowingIn = []string{"f1"}
	chapters[3].ForeshadowingOut = []string{"f2"}
	chapters[7].ForeshadowingIn = []string{"f2"}

	return &types.OutlineFull{
		Chapters: chapters,
		CharacterArcs: []types.CharacterArc{
			{Character: "Protagonist", StartState: "Reluctant and unprepared.", EndState: "Changed by the decisive choice.", TurningChapter: 5},
			{Character: "Antagonist", StartState: "In control of the board.", EndState: "Undone by the climax.", TurningChapter: 7},
		},
		ForeshadowingTable: []types.Foreshadowing{
			{ID: "f1", SetupChapter: 2, PayoffChapter: 7, Description: "The catalyst's hidden cost pays off at the climax."},
			{ID: "f2", SetupChapter: 4, PayoffChapter: 8, Description: "A mid-story promise resolves in the closing chapter."},
		},
		Ending: fmt.Sprintf("A %s resolution that settles the central conflict and honors the canon rules.", genre),
	}
}

// inputText recovers the raw requirement text from an analyze prompt
func inputText(userPrompt string) string {
	const marker = "Input text:\n"
	if idx := strings.LastIndex(userPrompt, marker); idx >= 0 {
		return strings.TrimSpace(userPrompt[idx+len(marker):])
	}
	return strings.TrimSpace(userPrompt)
}

// promptField pulls a quoted string field out of the JSON embedded in a
// prompt. Good enough for heuristics; falls back when the field is absent.
func promptField(prompt, field, fallback string) string {
	marker := `"` + field + `": "`
	idx := strings.Index(prompt, marker)
	if idx < 0 {
		return fallback
	}
	rest := prompt[idx+len(marker):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return fallback
	}
	return rest[:end]
}

func marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthetic output: %w", err)
	}
	return data, nil
}
