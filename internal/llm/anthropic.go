package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/messi-ai/pkg/anthropic"
)

// AnthropicGenerator calls the Anthropic Messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	params Params
}

// NewAnthropicGenerator creates a generator for p.Model. The Messages API
// requires p.MaxTokens to be positive.
func NewAnthropicGenerator(client anthropic.Client, p Params) *AnthropicGenerator {
	return &AnthropicGenerator{client: client, params: p}
}

func (g *AnthropicGenerator) Provider() string { return ProviderAnthropic }
func (g *AnthropicGenerator) Model() string    { return g.params.Model }

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (*Generation, error) {
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.params.Model,
		MaxTokens:   int64(g.params.MaxTokens),
		Prompt:      prompt,
		Temperature: g.params.Temperature,
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: anthropic")
	}

	gen := &Generation{
		Text:         resp.Text(),
		Model:        g.params.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	if resp.Refused() {
		gen.Blocked = true
		gen.BlockReason = resp.StopReason
	}
	return gen, nil
}
