package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/messi-ai/pkg/gemini"
)

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client gemini.Client
	params Params
}

// NewGeminiGenerator creates a generator for p.Model.
func NewGeminiGenerator(client gemini.Client, p Params) *GeminiGenerator {
	return &GeminiGenerator{client: client, params: p}
}

func (g *GeminiGenerator) Provider() string { return ProviderGemini }
func (g *GeminiGenerator) Model() string    { return g.params.Model }

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*Generation, error) {
	req := gemini.GenerateRequest{
		Model:           g.params.Model,
		Prompt:          prompt,
		MaxOutputTokens: int32(g.params.MaxTokens),
	}
	if g.params.Temperature != nil {
		t := float32(*g.params.Temperature)
		req.Temperature = &t
	}

	resp, err := g.client.GenerateContent(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "llm: gemini")
	}

	gen := &Generation{
		Text:         resp.Text,
		Blocked:      resp.Blocked(),
		Model:        g.params.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	if gen.Blocked {
		gen.BlockReason = resp.BlockReason
		if gen.BlockReason == "" {
			gen.BlockReason = resp.FinishReason
		}
	}
	return gen, nil
}
