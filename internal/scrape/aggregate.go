package scrape

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/messi-ai/internal/model"
)

// NoInformation is the context used when no source yielded any passage.
const NoInformation = "No information could be retrieved from the sources."

// sourceSeparator sits between the text of consecutive sources.
const sourceSeparator = "\n\n"

// Aggregator runs an Extractor over a fixed list of reference sources and
// joins whatever came back. Sources not marked Recognized are never fetched.
type Aggregator struct {
	extractor Extractor
	sources   []model.ReferenceSource
	limiter   *rate.Limiter // nil means unthrottled
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithRateLimit spaces page fetches to at most perSecond. A non-positive
// value disables throttling.
func WithRateLimit(perSecond float64) AggregatorOption {
	return func(a *Aggregator) {
		if perSecond <= 0 {
			a.limiter = nil
			return
		}
		a.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewAggregator creates an Aggregator over sources, which are visited in order.
func NewAggregator(extractor Extractor, sources []model.ReferenceSource, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		extractor: extractor,
		sources:   append([]model.ReferenceSource(nil), sources...),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Sources returns a copy of the configured sources.
func (a *Aggregator) Sources() []model.ReferenceSource {
	return append([]model.ReferenceSource(nil), a.sources...)
}

// Aggregate visits every recognized source sequentially and joins the
// non-empty results with a blank line. It never fails: when nothing was
// retrieved it returns NoInformation.
func (a *Aggregator) Aggregate(ctx context.Context) string {
	var blocks []string
	for _, src := range a.sources {
		if !src.Recognized {
			continue
		}
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				zap.L().Warn("scrape: rate limiter wait aborted",
					zap.String("url", src.URL),
					zap.Error(err),
				)
				continue
			}
		}

		ext := a.extractor.Extract(ctx, src.URL)
		if !ext.Found() {
			zap.L().Info("scrape: source produced nothing",
				zap.String("url", src.URL),
				zap.String("reason", ext.Reason),
			)
			continue
		}
		blocks = append(blocks, ext.Text())
	}

	if len(blocks) == 0 {
		zap.L().Warn("scrape: no information gathered from any source",
			zap.Int("sources", len(a.sources)),
		)
		return NoInformation
	}

	result := strings.Join(blocks, sourceSeparator)
	zap.L().Info("scrape: context gathered",
		zap.Int("sources", len(blocks)),
		zap.Int("chars", passageLen(result)),
	)
	return result
}
