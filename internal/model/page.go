package model

import "strings"

// ReferenceSource is a configured page expected to hold encyclopedic text
// about the subject. Recognized is decided once at configuration time by the
// extractor that would handle the page.
type ReferenceSource struct {
	URL        string `json:"url" yaml:"url"`
	Recognized bool   `json:"recognized" yaml:"recognized"`
}

// NewReferenceSources pairs each address with the result of the supplied
// recognition predicate, preserving order.
func NewReferenceSources(urls []string, recognized func(string) bool) []ReferenceSource {
	out := make([]ReferenceSource, 0, len(urls))
	for _, u := range urls {
		out = append(out, ReferenceSource{URL: u, Recognized: recognized(u)})
	}
	return out
}

// Extraction is the outcome of extracting passages from one reference page.
// An extraction with no passages is a soft failure; Reason says why.
type Extraction struct {
	URL      string   `json:"url"`
	Passages []string `json:"passages,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// NoContent builds an empty extraction for url with the given reason.
func NoContent(url, reason string) Extraction {
	return Extraction{URL: url, Reason: reason}
}

// Found reports whether the page produced at least one passage.
func (e Extraction) Found() bool {
	return len(e.Passages) > 0
}

// Text joins the passages with a single space.
func (e Extraction) Text() string {
	return strings.Join(e.Passages, " ")
}
