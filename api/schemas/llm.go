// File: api/schemas/llm.go
package schemas

import "context"

// GenerationRequest is a provider-agnostic chat completion request.
type GenerationRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// LLMClient defines the contract for all interactions with an external text
// generation service. Keeping this in the schemas package lets detectors and
// agents be tested against deterministic stubs instead of live network calls.
type LLMClient interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// ReasonedResponse splits a structured completion into the model's internal
// reasoning and its final action, per the REASONING:/ACTION: protocol used by
// agent planning prompts.
type ReasonedResponse struct {
	Reasoning    string
	Action       string
	FullResponse string
}
