// Package llm provides the OpenAI-compatible chat client that backs the
// external ingredient classifier, plus the JSON extraction, error
// classification, and circuit breaking around it.
package llm

import "context"

// ChatClient is the transport interface for chat-completion calls.
// Use it for dependency injection so the classifier can be exercised with
// a deterministic mock in tests.
type ChatClient interface {
	// GenerateResponse sends a system+user prompt pair and returns the raw
	// completion text.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure Client implements ChatClient at compile time.
var _ ChatClient = (*Client)(nil)
