// Package answer turns a question into a model-generated answer grounded on
// freshly scraped context.
package answer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/messi-ai/internal/cost"
	"github.com/sells-group/messi-ai/internal/failure"
	"github.com/sells-group/messi-ai/internal/llm"
)

// Fallback answers returned in place of generated text.
const (
	BlockedAnswer = "I'm sorry, I cannot provide an answer to that question."
	ErrorAnswer   = "I'm sorry, I encountered an error while generating the response."
)

// ContextSource produces the background text placed in the prompt.
type ContextSource interface {
	Aggregate(ctx context.Context) string
}

// Service answers questions. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	contexts  ContextSource
	generator llm.Generator
	costs     *cost.Calculator
	timeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each model call. Zero or negative means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithCalculator attaches cost estimation to reported token usage.
func WithCalculator(c *cost.Calculator) Option {
	return func(s *Service) { s.costs = c }
}

// NewService creates a Service.
func NewService(contexts ContextSource, generator llm.Generator, opts ...Option) *Service {
	s := &Service{contexts: contexts, generator: generator}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Answer always returns text: the generated answer, or one of the fixed
// fallback answers when the model blocks or fails.
func (s *Service) Answer(ctx context.Context, question string) string {
	log := zap.L().With(
		zap.String("run_id", uuid.New().String()),
		zap.String("provider", s.generator.Provider()),
		zap.String("model", s.generator.Model()),
	)

	background := s.contexts.Aggregate(ctx)
	log.Debug("answer: context retrieved", zap.Int("context_len", len(background)))
	if strings.TrimSpace(background) == "" {
		log.Warn("answer: no context retrieved")
	}

	prompt := BuildPrompt(background, question)

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	gen, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		log.Error("answer: generation failed",
			zap.Error(err),
			zap.String("failure_kind", string(failure.Classify(err))),
			zap.Duration("elapsed", time.Since(start)),
		)
		return ErrorAnswer
	}

	if s.costs != nil && (gen.InputTokens > 0 || gen.OutputTokens > 0) {
		s.costs.Log(s.generator.Provider(), gen.Model, gen.InputTokens, gen.OutputTokens)
	}

	if gen.Blocked {
		log.Warn("answer: generation blocked", zap.String("block_reason", gen.BlockReason))
		return BlockedAnswer
	}

	log.Info("answer: generated",
		zap.Int("answer_len", len(gen.Text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return gen.Text
}
