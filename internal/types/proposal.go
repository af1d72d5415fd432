// Package types provides type definitions for the structured planning artifacts
// exchanged with the generator and persisted per session.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ProposalStatus represents the lifecycle status of a session's proposal
type ProposalStatus string

// Proposal status values
const (
	// StatusNew is the status of a freshly created or reset session
	StatusNew ProposalStatus = "NEW"
	// StatusNeedsConfirmation means a proposal is awaiting a user decision
	StatusNeedsConfirmation ProposalStatus = "NEEDS_CONFIRMATION"
	// StatusApproved is the terminal, user-confirmed status
	StatusApproved ProposalStatus = "APPROVED"
)

// ChapterBeatCount is the fixed number of beats in a lite outline
const ChapterBeatCount = 8

// DefaultChangeSummary is attached to every proposal rebuilt from requirement input
const DefaultChangeSummary = "Generated from latest requirement input."

// RequirementSpec is the structured reading of the user's raw request.
// It is immutable once attached to a proposal version; edits supersede it
// by re-running analysis over the appended raw text.
type RequirementSpec struct {
	RawText     string   `json:"raw_text"`
	Objective   string   `json:"objective"`
	GenreHint   string   `json:"genre_hint"`
	ToneHint    string   `json:"tone_hint"`
	Constraints []string `json:"constraints"`
}

// ExpansionResult holds suggested expansions and open questions for a spec.
// It is ephemeral: folded into the proposal, never persisted on its own.
type ExpansionResult struct {
	ExpansionSuggestions []string `json:"expansion_suggestions"`
	OpenQuestions        []string `json:"open_questions"`
}

// OutlineLite is the lightweight chapter-beat outline presented with a proposal.
// ChapterBeats must contain exactly ChapterBeatCount entries.
type OutlineLite struct {
	ChapterBeats []string `json:"chapter_beats"`
}

// ProposalPackage is the versioned unit returned to callers and persisted as
// the session's current proposal.
type ProposalPackage struct {
	RequirementSpec      RequirementSpec `json:"requirement_spec"`
	ExpansionSuggestions []string        `json:"expansion_suggestions"`
	OutlineLite          OutlineLite     `json:"outline_lite"`
	OpenQuestions        []string        `json:"open_questions"`
	Version              int             `json:"version"`
	Status               ProposalStatus  `json:"status"`
	ChangeSummary        string          `json:"change_summary"`
}
