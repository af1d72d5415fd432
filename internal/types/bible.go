package types

// StoryBible is the world/character/style canon generated once per approved
// session and frozen for all later outline expansion.
type StoryBible struct {
	TitleWorking string          `json:"title_working"`
	Genre        string          `json:"genre"`
	Tone         string          `json:"tone"`
	POV          string          `json:"pov"`
	StyleGuide   string          `json:"style_guide"`
	World        string          `json:"world"`
	Characters   []Character     `json:"characters"`
	Timeline     []TimelineEvent `json:"timeline"`
	CanonRules   []string        `json:"canon_rules"`
}

// Character is one entry in the bible's character canon
type Character struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Arc         string `json:"arc"`
}

// TimelineEvent is one entry in the bible's story timeline
type TimelineEvent struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}
