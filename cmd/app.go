package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/messi-ai/internal/answer"
	"github.com/sells-group/messi-ai/internal/cost"
	"github.com/sells-group/messi-ai/internal/llm"
	"github.com/sells-group/messi-ai/internal/model"
	"github.com/sells-group/messi-ai/internal/scrape"
	anthropicpkg "github.com/sells-group/messi-ai/pkg/anthropic"
	"github.com/sells-group/messi-ai/pkg/gemini"
)

// appEnv holds the initialized context pipeline and answer service needed by
// the serve/ask commands.
type appEnv struct {
	Aggregator *scrape.Aggregator
	Answerer   *answer.Service
}

// initAggregator builds the context aggregator from the configured sources.
// It needs no credentials.
func initAggregator() *scrape.Aggregator {
	var extractorOpts []scrape.Option
	if cfg.Scrape.TimeoutSecs > 0 {
		extractorOpts = append(extractorOpts, scrape.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs)*time.Second))
	}
	extractor := scrape.NewWikipediaExtractor(extractorOpts...)

	sources := model.NewReferenceSources(cfg.Scrape.Sources, extractor.Supports)
	return scrape.NewAggregator(extractor, sources, scrape.WithRateLimit(cfg.Scrape.RatePerSecond))
}

// initGenerator creates the model client for the configured provider.
func initGenerator(ctx context.Context) (llm.Generator, error) {
	params := llm.Params{
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}

	switch cfg.LLM.Provider {
	case llm.ProviderGemini:
		var opts []gemini.Option
		if cfg.Gemini.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
		}
		client, err := gemini.NewClient(ctx, cfg.Gemini.Key, opts...)
		if err != nil {
			return nil, eris.Wrap(err, "init gemini client")
		}
		return llm.NewGeminiGenerator(client, params), nil
	case llm.ProviderAnthropic:
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		return llm.NewAnthropicGenerator(client, params), nil
	case llm.ProviderOllama:
		gen, err := llm.NewOllamaGenerator(cfg.Ollama.Host, params, http.DefaultClient)
		if err != nil {
			return nil, eris.Wrap(err, "init ollama client")
		}
		return gen, nil
	default:
		return nil, eris.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// initCalculator merges configured pricing over the built-in rates.
func initCalculator() *cost.Calculator {
	rates := make(cost.Rates, len(cfg.Pricing.Models))
	for _, m := range cfg.Pricing.Models {
		rates[m.Name] = cost.ModelRate{Input: m.Input, Output: m.Output}
	}
	return cost.NewCalculator(rates)
}

// initApp validates the configuration for mode and wires the answer
// pipeline.
func initApp(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	generator, err := initGenerator(ctx)
	if err != nil {
		return nil, err
	}

	agg := initAggregator()
	svc := answer.NewService(agg, generator,
		answer.WithCalculator(initCalculator()),
		answer.WithTimeout(time.Duration(cfg.LLM.TimeoutSecs)*time.Second),
	)

	return &appEnv{Aggregator: agg, Answerer: svc}, nil
}
