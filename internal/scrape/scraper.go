// Package scrape pulls short encyclopedic passages from reference pages and
// stitches them into the context block handed to the language model.
package scrape

import (
	"context"

	"github.com/sells-group/messi-ai/internal/model"
)

// Extractor turns one reference page into passages. Failures are soft: they
// come back as an Extraction without passages, never as an error.
type Extractor interface {
	Extract(ctx context.Context, url string) model.Extraction
	Name() string
	Supports(url string) bool
}
