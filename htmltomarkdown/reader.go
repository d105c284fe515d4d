package htmltomarkdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fwojciec/locallm"
)

// Ensure Reader implements locallm.DocumentReader.
var _ locallm.DocumentReader = (*Reader)(nil)

// Reader implements locallm.DocumentReader for saved web pages. The first
// extractor that finds content decides what is converted; when none does
// the whole page is converted.
type Reader struct {
	Extractors []locallm.Extractor
	Converter  locallm.Converter
}

// NewReader returns a reader trying extractors in order.
func NewReader(extractors ...locallm.Extractor) *Reader {
	return &Reader{Extractors: extractors, Converter: NewConverter()}
}

// ReadDocument returns the page at path as Markdown headed by its title.
// A blank page reads as empty text.
func (r *Reader) ReadDocument(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", locallm.Errorf(locallm.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return "", fmt.Errorf("reading html %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	raw := strings.ToValidUTF8(string(data), "")
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	page := r.extract(raw)
	md, err := r.Converter.Convert(page.ContentHTML)
	if err != nil {
		return "", fmt.Errorf("converting html %s: %w", path, err)
	}
	md = strings.TrimSpace(md)

	if page.Title != "" && !strings.HasPrefix(md, "# ") {
		md = "# " + page.Title + "\n\n" + md
	}
	return md, nil
}

func (r *Reader) extract(raw string) *locallm.Page {
	for _, e := range r.Extractors {
		page, err := e.Extract(raw)
		if err == nil && strings.TrimSpace(page.ContentHTML) != "" {
			return page
		}
	}
	return &locallm.Page{ContentHTML: raw}
}
