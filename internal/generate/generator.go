// Package generate implements the validated-generation contract between the
// workflow and the external model: every call yields a payload that satisfies
// the closed schema of its target shape, or a typed failure.
//
// Two strategies implement the contract. Live talks to a real model endpoint
// and repairs invalid output with bounded retries. Synthetic produces
// deterministic canned output from keyword heuristics, for offline operation
// and reproducible tests. The strategy is chosen explicitly at construction.
package generate

import (
	"context"

	"github.com/jonathan/novel-planner/internal/schemas"
)

// Generator turns a prompt pair into a schema-validated JSON payload for a
// named target shape.
type Generator interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, target schemas.Target) ([]byte, error)
}

// DefaultMaxRetries bounds total attempts per generation call
const DefaultMaxRetries = 3
