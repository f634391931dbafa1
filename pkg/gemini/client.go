// Package gemini wraps the Google Gen AI SDK behind the small surface the
// answer service needs.
package gemini

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

// Client defines the Gemini API operations used by the backend.
type Client interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// GenerateRequest is a single-turn text prompt.
type GenerateRequest struct {
	Model           string
	Prompt          string
	MaxOutputTokens int32
	Temperature     *float32
}

// GenerateResponse is our own view of a generateContent response.
type GenerateResponse struct {
	Text         string
	BlockReason  string // prompt-level safety block, empty when not blocked
	FinishReason string // finish reason of the first candidate
	ModelVersion string
	Usage        TokenUsage
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

// Blocked reports whether the service withheld content on safety grounds,
// either for the prompt as a whole or for the chosen candidate.
func (r *GenerateResponse) Blocked() bool {
	if r.BlockReason != "" && r.BlockReason != string(genai.BlockedReasonUnspecified) {
		return true
	}
	return r.FinishReason == string(genai.FinishReasonSafety) ||
		r.FinishReason == string(genai.FinishReasonProhibitedContent) ||
		r.FinishReason == string(genai.FinishReasonBlocklist)
}

// Option configures the client.
type Option func(*genai.ClientConfig)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *genai.ClientConfig) {
		c.HTTPClient = hc
	}
}

// sdkClient implements Client using google.golang.org/genai.
type sdkClient struct {
	client *genai.Client
}

// NewClient creates a Gemini Developer API client authenticated by apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, o := range opts {
		o(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &sdkClient{client: client}, nil
}

func (c *sdkClient) GenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var cfg *genai.GenerateContentConfig
	if req.MaxOutputTokens > 0 || req.Temperature != nil {
		cfg = &genai.GenerateContentConfig{
			MaxOutputTokens: req.MaxOutputTokens,
			Temperature:     req.Temperature,
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}

	return fromSDKResponse(resp), nil
}

func fromSDKResponse(resp *genai.GenerateContentResponse) *GenerateResponse {
	out := &GenerateResponse{
		ModelVersion: resp.ModelVersion,
	}
	if resp.PromptFeedback != nil {
		out.BlockReason = string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.Usage = TokenUsage{
			InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	out.Text = resp.Text()
	return out
}
