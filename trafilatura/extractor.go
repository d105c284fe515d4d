// Package trafilatura isolates the main content of saved web pages using
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/locallm"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements locallm.Extractor.
var _ locallm.Extractor = (*Extractor)(nil)

// Extractor implements locallm.Extractor with trafilatura and its built-in
// fallback extractors.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the title and main content of rawHTML. ContentHTML is
// empty when no main content was found.
func (e *Extractor) Extract(rawHTML string) (*locallm.Page, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, locallm.Errorf(locallm.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, err
	}

	page := &locallm.Page{Title: strings.TrimSpace(result.Metadata.Title)}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		page.ContentHTML = buf.String()
	}
	return page, nil
}
