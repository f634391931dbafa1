// Package cost estimates what a model call cost, for log attribution only.
package cost

import "go.uber.org/zap"

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates maps model identifiers to their pricing.
type Rates map[string]ModelRate

// Calculator computes costs for model usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates. Configured rates
// override the defaults per model; models missing from both cost nothing.
func NewCalculator(rates Rates) *Calculator {
	merged := DefaultRates()
	for model, rate := range rates {
		merged[model] = rate
	}
	return &Calculator{rates: merged}
}

// Tokens computes the cost of one call. Returns 0 for unknown models
// (local models, for instance).
func (c *Calculator) Tokens(model string, input, output int64) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}
	inCost := (float64(input) / 1e6) * rate.Input
	outCost := (float64(output) / 1e6) * rate.Output
	return inCost + outCost
}

// Log writes a cost attribution line for one call.
func (c *Calculator) Log(provider, model string, input, output int64) {
	zap.L().Info("cost attribution",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Int64("input_tokens", input),
		zap.Int64("output_tokens", output),
		zap.Float64("estimated_cost_usd", c.Tokens(model, input, output)),
	)
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		"gemini-pro":                 {Input: 0.50, Output: 1.50},
		"gemini-1.5-flash":           {Input: 0.075, Output: 0.30},
		"gemini-1.5-pro":             {Input: 1.25, Output: 5.00},
		"gemini-2.0-flash":           {Input: 0.10, Output: 0.40},
		"gemini-2.5-flash":           {Input: 0.30, Output: 2.50},
		"gemini-2.5-pro":             {Input: 1.25, Output: 10.00},
		"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
	}
}

