package scrape

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/messi-ai/internal/failure"
	"github.com/sells-group/messi-ai/internal/model"
)

const (
	minPassageChars = 50
	maxPassages     = 5
	maxBodyBytes    = 10 << 20
	diagnosticChars = 500
	diagnosticNodes = 10
)

// hiddenElements never contribute rendered text.
const hiddenElements = "style, script, template, noscript"

// Reasons recorded on an Extraction that produced nothing.
const (
	ReasonFetchFailed   = "fetch failed"
	ReasonParseFailed   = "parse failed"
	ReasonNoMainContent = "main content not found"
	ReasonNoPassages    = "no relevant paragraphs"
)

// browserHeaders mimic a desktop browser; the encyclopedia serves bare
// clients a leaner page.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
}

// WikipediaExtractor fetches an article and keeps the first few substantial
// body paragraphs. One attempt per call, no retry.
type WikipediaExtractor struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a WikipediaExtractor.
type Option func(*WikipediaExtractor)

// WithHTTPClient overrides the default http.Client. The client is never
// modified; WithTimeout applies to a copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(w *WikipediaExtractor) {
		w.client = hc
	}
}

// WithTimeout bounds each page fetch. Zero leaves fetches unbounded.
func WithTimeout(d time.Duration) Option {
	return func(w *WikipediaExtractor) {
		w.timeout = d
	}
}

// NewWikipediaExtractor creates an extractor. By default fetches have no
// timeout; a slow page blocks until the caller's context ends.
func NewWikipediaExtractor(opts ...Option) *WikipediaExtractor {
	w := &WikipediaExtractor{client: &http.Client{}}
	for _, o := range opts {
		o(w)
	}
	if w.timeout > 0 {
		hc := *w.client
		hc.Timeout = w.timeout
		w.client = &hc
	}
	return w
}

func (w *WikipediaExtractor) Name() string { return "wikipedia" }

// Supports reports whether the address belongs to the encyclopedia.
func (w *WikipediaExtractor) Supports(url string) bool {
	return strings.Contains(strings.ToLower(url), "wikipedia")
}

// Extract fetches url and returns up to five cleaned paragraphs longer than
// fifty characters, in document order.
func (w *WikipediaExtractor) Extract(ctx context.Context, url string) model.Extraction {
	log := zap.L().With(zap.String("extractor", w.Name()), zap.String("url", url))
	log.Info("scrape: fetching page")

	body, err := w.fetch(ctx, url)
	if err != nil {
		log.Warn("scrape: fetch failed",
			zap.String("failure_kind", string(failure.Classify(err))),
			zap.Error(err),
		)
		return model.NoContent(url, ReasonFetchFailed)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Warn("scrape: parse failed", zap.Error(err))
		return model.NoContent(url, ReasonParseFailed)
	}

	content := doc.Find("div#mw-content-text").First()
	if content.Length() == 0 {
		log.Warn("scrape: main content not found",
			zap.Strings("classes", sampleClasses(doc, diagnosticNodes)),
		)
		return model.NoContent(url, ReasonNoMainContent)
	}

	passages := collectPassages(content)
	if len(passages) == 0 {
		log.Warn("scrape: no relevant paragraphs",
			zap.String("html_head", truncateRunes(string(body), diagnosticChars)),
		)
		return model.NoContent(url, ReasonNoPassages)
	}

	ext := model.Extraction{URL: url, Passages: passages}
	log.Info("scrape: extracted passages",
		zap.Int("passages", len(passages)),
		zap.Int("chars", passageLen(ext.Text())),
	)
	return ext
}

func (w *WikipediaExtractor) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "wikipedia: create request")
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "wikipedia: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "wikipedia: read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if bt := DetectBlock(resp.StatusCode, resp.Header, body); bt != BlockNone {
			zap.L().Warn("scrape: upstream served a block page",
				zap.String("url", url),
				zap.String("block_type", string(bt)),
			)
		}
		return nil, eris.Wrap(&failure.StatusError{URL: url, StatusCode: resp.StatusCode}, "wikipedia: fetch")
	}

	return body, nil
}

// collectPassages walks direct paragraph children of the parser output and
// stops as soon as maxPassages qualify.
func collectPassages(content *goquery.Selection) []string {
	var passages []string
	content.Find(".mw-parser-output > p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := cleanPassage(visibleText(p))
		if passageLen(text) > minPassageChars {
			passages = append(passages, text)
		}
		return len(passages) < maxPassages
	})
	return passages
}

// visibleText returns the rendered text of s, leaving out the bodies of
// inline style, script and template elements.
func visibleText(s *goquery.Selection) string {
	return s.Clone().Find(hiddenElements).Remove().End().Text()
}

func sampleClasses(doc *goquery.Document, n int) []string {
	var classes []string
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		classes = append(classes, s.AttrOr("class", ""))
		return len(classes) < n
	})
	return classes
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
