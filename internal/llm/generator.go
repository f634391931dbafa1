// Package llm adapts the hosted and local model clients to one Generator
// interface so the answer service does not care which provider is configured.
package llm

import "context"

// Provider names accepted in configuration.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Params are the model settings shared by every provider.
type Params struct {
	Model       string
	MaxTokens   int      // zero leaves the provider default where one exists
	Temperature *float64 // nil leaves the provider default
}

// Generation is the outcome of one completion call.
type Generation struct {
	Text         string
	Blocked      bool
	BlockReason  string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// Generator submits a single prompt to a model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
	Provider() string
	Model() string
}
