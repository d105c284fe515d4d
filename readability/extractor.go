// Package readability isolates the article content of saved web pages using
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/locallm"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements locallm.Extractor.
var _ locallm.Extractor = (*Extractor)(nil)

// Extractor implements locallm.Extractor with the Readability algorithm.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the title and article content of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*locallm.Page, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, locallm.Errorf(locallm.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &locallm.Page{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
