// Package pdf extracts plain text from PDF documents using ledongthuc/pdf.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fwojciec/locallm"
	"github.com/ledongthuc/pdf"
)

// Ensure Reader implements locallm.DocumentReader.
var _ locallm.DocumentReader = (*Reader)(nil)

// Reader implements locallm.DocumentReader for PDF files.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadDocument returns the text of every page, each prefixed with a
// "--- Page N ---" marker. Pages without extractable text are skipped.
func (r *Reader) ReadDocument(ctx context.Context, path string) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("parsing pdf %s: %v", path, p)
		}
	}()

	f, doc, err := pdf.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", locallm.Errorf(locallm.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(content) == "" {
			continue
		}
		pages = append(pages, fmt.Sprintf("--- Page %d ---\n%s", i, content))
	}

	return strings.Join(pages, "\n\n"), nil
}
