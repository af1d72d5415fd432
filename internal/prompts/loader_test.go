package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/novel-planner/internal/types"
)

func TestGetKnownKeys(t *testing.T) {
	keys := []string{"base-system", "analyze", "expand", "outline-lite", "freeze-bible", "plan-book", "repair"}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			prompt, err := Get(key)
			require.NoError(t, err)
			assert.NotEmpty(t, prompt)
		})
	}
}

func TestGetUnknownKey(t *testing.T) {
	_, err := Get("no-such-prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	result := Format("Hello {{.Name}}, {{.Name}} again. {{.Other}}", map[string]string{
		"Name":  "World",
		"Other": "Bye",
	})
	assert.Equal(t, "Hello World, World again. Bye", result)
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	result := Format("{{.Known}} {{.Unknown}}", map[string]string{"Known": "ok"})
	assert.Equal(t, "ok {{.Unknown}}", result)
}

func TestAnalyzeEmbedsRawText(t *testing.T) {
	prompt := Analyze("Write a heist novel")
	assert.Contains(t, prompt, "Write a heist novel")
	assert.NotContains(t, prompt, "{{.RawText}}")
}

func TestExpandEmbedsSpecJSON(t *testing.T) {
	spec := &types.RequirementSpec{
		RawText:   "Write a heist novel",
		GenreHint: "thriller",
	}
	prompt := Expand(spec)
	assert.Contains(t, prompt, `"genre_hint": "thriller"`)
	assert.NotContains(t, prompt, "{{.Spec}}")
}

func TestRepairCarriesContext(t *testing.T) {
	prompt := Repair("requirement_spec", "missing field objective", `{"raw_text": "x"}`)
	assert.Contains(t, prompt, "requirement_spec")
	assert.Contains(t, prompt, "missing field objective")
	assert.Contains(t, prompt, `{"raw_text": "x"}`)
}
