// Package llm defines the Provider interface for the text-correction
// language-model backends.
//
// lexibly uses a language model for exactly one job: given a window of raw
// recognised transcript text, return the same text with spelling and
// punctuation fixed. The Provider interface is deliberately small — a single
// blocking completion call — because correction runs in the background per
// batch, never on a latency-sensitive path.
//
// Implementations must be safe for concurrent use; the correction pipeline
// may run several batches against one Provider at a time.
package llm

import "context"

// Message is a single message in the completion conversation.
type Message struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the text content of the message.
	Content string
}

// Usage holds token accounting returned by the backend. Counts are in the
// model's native token unit.
type Usage struct {
	// PromptTokens is the number of tokens consumed by the input.
	PromptTokens int

	// CompletionTokens is the number of tokens generated.
	CompletionTokens int

	// TotalTokens is PromptTokens + CompletionTokens.
	TotalTokens int
}

// CompletionRequest carries everything the model needs to produce a
// response. Messages must be non-empty.
type CompletionRequest struct {
	// SystemPrompt is a high-priority instruction injected before the
	// conversation. Providers without a dedicated system slot prepend it as a
	// "system"-role message.
	SystemPrompt string

	// Messages is the ordered conversation; the last message drives the
	// response.
	Messages []Message

	// Temperature controls output randomness. Correction uses low values for
	// deterministic output. Zero means provider default.
	Temperature float64

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int
}

// CompletionResponse is the model's full reply.
type CompletionResponse struct {
	// Content is the full text of the reply.
	Content string

	// Usage contains token accounting for this request/response pair.
	Usage Usage
}

// Provider is the abstraction over any correction-capable LLM backend.
//
// Complete sends req and waits for the full response. Implementations must
// propagate context cancellation promptly and be safe for concurrent use.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
