package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/locallm"
)

// Ensure DocumentReader implements locallm.DocumentReader.
var _ locallm.DocumentReader = (*DocumentReader)(nil)

// DocumentReader dispatches on file extension. Plain text formats are read
// directly; everything else is delegated.
type DocumentReader struct {
	// PDF reads .pdf files.
	PDF locallm.DocumentReader

	// Word reads .docx files.
	Word locallm.DocumentReader

	// HTML reads saved web pages.
	HTML locallm.DocumentReader
}

// NewDocumentReader returns a reader delegating to pdf, word and html.
func NewDocumentReader(pdf, word, html locallm.DocumentReader) *DocumentReader {
	return &DocumentReader{PDF: pdf, Word: word, HTML: html}
}

// ReadDocument returns the text of the document at path.
func (r *DocumentReader) ReadDocument(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", locallm.Errorf(locallm.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", locallm.Errorf(locallm.EINVALID, "not a file: %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.ToValidUTF8(string(data), ""), nil
	case ".pdf":
		if r.PDF == nil {
			return "", locallm.Errorf(locallm.EUNSUPPORTED, "no PDF reader configured")
		}
		return r.PDF.ReadDocument(ctx, path)
	case ".docx":
		if r.Word == nil {
			return "", locallm.Errorf(locallm.EUNSUPPORTED, "no Word reader configured")
		}
		return r.Word.ReadDocument(ctx, path)
	case ".html", ".htm":
		if r.HTML == nil {
			return "", locallm.Errorf(locallm.EUNSUPPORTED, "no HTML reader configured")
		}
		return r.HTML.ReadDocument(ctx, path)
	case ".doc":
		return "", locallm.Errorf(locallm.EUNSUPPORTED, "legacy .doc format is not supported, convert to .docx: %s", path)
	default:
		return "", locallm.Errorf(locallm.EUNSUPPORTED, "unsupported file type %q", ext)
	}
}
