// Package llm provides the model-client abstraction for the relay and its
// hosted backends (Groq, OpenAI), plus the embedding client used by the
// knowledge store.
package llm

import (
	"context"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
)

// GenerationParams carries optional sampling controls. Nil fields leave the
// backend default in place.
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any LLM backend.
type LLMClient interface {
	// Chat sends an ordered message stack (system + history + current user
	// message) and returns the generated reply text. One call, no retries.
	Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error)
}
