// Package schemas provides closed JSON Schema validation for the structured
// shapes exchanged with the generator. Every schema forbids unknown fields.
package schemas

import "fmt"

// Target identifies one of the known structured generation shapes
type Target string

// Known generation targets
const (
	TargetRequirementSpec Target = "RequirementSpec"
	TargetExpansionResult Target = "ExpansionResult"
	TargetOutlineLite     Target = "OutlineLite"
	TargetStoryBible      Target = "StoryBible"
	TargetOutlineFull     Target = "OutlineFull"
)

const requirementSpecSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["raw_text", "objective", "genre_hint", "tone_hint", "constraints"],
  "properties": {
    "raw_text": {"type": "string"},
    "objective": {"type": "string"},
    "genre_hint": {"type": "string"},
    "tone_hint": {"type": "string"},
    "constraints": {"type": "array", "items": {"type": "string"}}
  }
}`

const expansionResultSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["expansion_suggestions", "open_questions"],
  "properties": {
    "expansion_suggestions": {"type": "array", "items": {"type": "string"}},
    "open_questions": {"type": "array", "items": {"type": "string"}}
  }
}`

const outlineLiteSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["chapter_beats"],
  "properties": {
    "chapter_beats": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 8,
      "maxItems": 8
    }
  }
}`

const storyBibleSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["title_working", "genre", "tone", "pov", "style_guide", "world", "characters", "timeline", "canon_rules"],
  "properties": {
    "title_working": {"type": "string"},
    "genre": {"type": "string"},
    "tone": {"type": "string"},
    "pov": {"type": "string"},
    "style_guide": {"type": "string"},
    "world": {"type": "string"},
    "characters": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name", "role", "description", "arc"],
        "properties": {
          "name": {"type": "string"},
          "role": {"type": "string"},
          "description": {"type": "string"},
          "arc": {"type": "string"}
        }
      }
    },
    "timeline": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["label", "description"],
        "properties": {
          "label": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "canon_rules": {"type": "array", "items": {"type": "string"}}
  }
}`

const outlineFullSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["chapters", "character_arcs", "foreshadowing_table", "ending"],
  "properties": {
    "chapters": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["index", "title", "goal", "conflict", "twist", "hook", "locations", "characters_involved", "foreshadowing_in", "foreshadowing_out"],
        "properties": {
          "index": {"type": "integer"},
          "title": {"type": "string"},
          "goal": {"type": "string"},
          "conflict": {"type": "string"},
          "twist": {"type": "string"},
          "hook": {"type": "string"},
          "locations": {"type": "array", "items": {"type": "string"}},
          "characters_involved": {"type": "array", "items": {"type": "string"}},
          "foreshadowing_in": {"type": "array", "items": {"type": "string"}},
          "foreshadowing_out": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "character_arcs": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["character", "start_state", "end_state", "turning_chapter"],
        "properties": {
          "character": {"type": "string"},
          "start_state": {"type": "string"},
          "end_state": {"type": "string"},
          "turning_chapter": {"type": "integer"}
        }
      }
    },
    "foreshadowing_table": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["id", "setup_chapter", "payoff_chapter", "description"],
        "properties": {
          "id": {"type": "string"},
          "setup_chapter": {"type": "integer"},
          "payoff_chapter": {"type": "integer"},
          "description": {"type": "string"}
        }
      }
    },
    "ending": {"type": "string"}
  }
}`

var schemasByTarget = map[Target]string{
	TargetRequirementSpec: requirementSpecSchema,
	TargetExpansionResult: expansionResultSchema,
	TargetOutlineLite:     outlineLiteSchema,
	TargetStoryBible:      storyBibleSchema,
	TargetOutlineFull:     outlineFullSchema,
}

// SchemaFor returns the JSON Schema source for a target shape
func SchemaFor(target Target) (string, error) {
	schema, ok := schemasByTarget[target]
	if !ok {
		return "", fmt.Errorf("unsupported generation target: %s", target)
	}
	return schema, nil
}
