package generate

import (
	"context"
	"errors"

	"github.com/jonathan/novel-planner/internal/llm"
	"github.com/jonathan/novel-planner/internal/prompts"
	"github.com/jonathan/novel-planner/internal/schemas"
)

// Live generates payloads through a real model endpoint. On validation failure
// it re-issues the request with a repair instruction carrying the previous
// invalid output and the validation error, up to maxRetries total attempts.
// Transport failures surface immediately and are never retried here.
type Live struct {
	client     llm.Client
	maxRetries int
}

// NewLive creates a live generator over an LLM client.
// maxRetries <= 0 falls back to DefaultMaxRetries.
func NewLive(client llm.Client, maxRetries int) *Live {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Live{client: client, maxRetries: maxRetries}
}

// GenerateJSON implements Generator
func (l *Live) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, target schemas.Target) ([]byte, error) {
	prompt := userPrompt
	lastError := "unknown error"
	lastRaw := ""

	for attempt := 1; attempt <= l.maxRetries; attempt++ {
		raw, err := l.client.GenerateJSON(ctx, systemPrompt, prompt)
		if err != nil {
			return nil, &TransportError{Message: "model call failed", Cause: err}
		}

		cleaned := llm.CleanJSONBlock(raw)
		verr := schemas.Validate(target, cleaned)
		if verr == nil {
			return []byte(cleaned), nil
		}
		if !retryable(verr) {
			return nil, verr
		}

		lastError = verr.Error()
		lastRaw = raw
		prompt = prompts.Repair(string(target), lastError, raw)
	}

	return nil, &GenerationError{
		Target:    target,
		Attempts:  l.maxRetries,
		LastError: lastError,
		RawOutput: lastRaw,
	}
}

// retryable reports whether a validation failure can be repaired by the model.
// Schema violations and unparseable documents qualify; an unknown target is a
// caller bug and surfaces as-is.
func retryable(err error) bool {
	var ve *schemas.ValidationError
	var le *schemas.SchemaLoadError
	return errors.As(err, &ve) || errors.As(err, &le)
}
