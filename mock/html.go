package mock

import "github.com/fwojciec/locallm"

var _ locallm.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of locallm.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*locallm.Page, error)
}

func (e *Extractor) Extract(html string) (*locallm.Page, error) {
	return e.ExtractFn(html)
}

var _ locallm.Converter = (*Converter)(nil)

// Converter is a mock implementation of locallm.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
