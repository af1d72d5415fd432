package types

import "fmt"

// OutlineFull is the detailed post-approval outline generated from the bible
// and the requirement spec.
type OutlineFull struct {
	Chapters           []Chapter       `json:"chapters"`
	CharacterArcs      []CharacterArc  `json:"character_arcs"`
	ForeshadowingTable []Foreshadowing `json:"foreshadowing_table"`
	Ending             string          `json:"ending"`
}

// Chapter is one chapter entry in the full outline
type Chapter struct {
	Index              int      `json:"index"`
	Title              string   `json:"title"`
	Goal               string   `json:"goal"`
	Conflict           string   `json:"conflict"`
	Twist              string   `json:"twist"`
	Hook               string   `json:"hook"`
	Locations          []string `json:"locations"`
	CharactersInvolved []string `json:"characters_involved"`
	ForeshadowingIn    []string `json:"foreshadowing_in"`
	ForeshadowingOut   []string `json:"foreshadowing_out"`
}

// CharacterArc traces one character's development across the outline
type CharacterArc struct {
	Character      string `json:"character"`
	StartState     string `json:"start_state"`
	EndState       string `json:"end_state"`
	TurningChapter int    `json:"turning_chapter"`
}

// Foreshadowing links a setup chapter to its payoff chapter by id
type Foreshadowing struct {
	ID            string `json:"id"`
	SetupChapter  int    `json:"setup_chapter"`
	PayoffChapter int    `json:"payoff_chapter"`
	Description   string `json:"description"`
}

// PlanPackage bundles the materialized plan for an approved session
type PlanPackage struct {
	Bible          StoryBible  `json:"bible"`
	OutlineFull    OutlineFull `json:"outline_full"`
	BibleVersion   int         `json:"bible_version"`
	OutlineVersion int         `json:"outline_version"`
}

// ValidateCrossReferences checks that every foreshadowing id referenced by a
// chapter exists in the table and that setup/payoff chapter numbers fall inside
// the chapter index range. The generator is expected to satisfy this; the
// serving path does not enforce it, so callers opt in.
func (o *OutlineFull) ValidateCrossReferences() error {
	ids := make(map[string]bool, len(o.ForeshadowingTable))
	maxIndex := 0
	for _, ch := range o.Chapters {
		if ch.Index > maxIndex {
			maxIndex = ch.Index
		}
	}

	for _, f := range o.ForeshadowingTable {
		ids[f.ID] = true
		if f.SetupChapter < 1 || f.SetupChapter > maxIndex {
			return fmt.Errorf("foreshadowing %s: setup_chapter %d outside chapter range 1..%d", f.ID, f.SetupChapter, maxIndex)
		}
		if f.PayoffChapter < 1 || f.PayoffChapter > maxIndex {
			return fmt.Errorf("foreshadowing %s: payoff_chapter %d outside chapter range 1..%d", f.ID, f.PayoffChapter, maxIndex)
		}
	}

	for _, ch := range o.Chapters {
		for _, id := range ch.ForeshadowingIn {
			if !ids[id] {
				return fmt.Errorf("chapter %d: foreshadowing_in id %q not in table", ch.Index, id)
			}
		}
		for _, id := range ch.ForeshadowingOut {
			if !ids[id] {
				return fmt.Errorf("chapter %d: foreshadowing_out id %q not in table", ch.Index, id)
			}
		}
	}

	return nil
}
