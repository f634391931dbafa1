package llm

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
	"github.com/rotisserie/eris"
)

// OllamaGenerator calls a local Ollama server. Local models have no safety
// block signal, so generations are never marked Blocked.
type OllamaGenerator struct {
	client *api.Client
	params Params
}

// NewOllamaGenerator creates a generator against host. An empty host falls
// back to OLLAMA_HOST or the Ollama default.
func NewOllamaGenerator(host string, p Params, hc *http.Client) (*OllamaGenerator, error) {
	base := envconfig.Host()
	if host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, eris.Wrap(err, "llm: parse ollama host")
		}
		base = u
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &OllamaGenerator{
		client: api.NewClient(base, hc),
		params: p,
	}, nil
}

func (g *OllamaGenerator) Provider() string { return ProviderOllama }
func (g *OllamaGenerator) Model() string    { return g.params.Model }

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (*Generation, error) {
	options := map[string]interface{}{}
	if g.params.MaxTokens > 0 {
		options["num_predict"] = g.params.MaxTokens
	}
	if g.params.Temperature != nil {
		options["temperature"] = *g.params.Temperature
	}
	req := api.GenerateRequest{
		Model:  g.params.Model,
		Prompt: prompt,
	}
	if len(options) > 0 {
		req.Options = options
	}

	gen := &Generation{Model: g.params.Model}
	var b strings.Builder
	err := g.client.Generate(ctx, &req, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		if resp.Done {
			gen.InputTokens = int64(resp.PromptEvalCount)
			gen.OutputTokens = int64(resp.EvalCount)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: ollama")
	}

	gen.Text = b.String()
	return gen, nil
}
