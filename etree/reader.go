// Package etree extracts plain text from Word (.docx) documents by parsing
// the document XML part with beevik/etree.
package etree

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/locallm"
)

// Ensure Reader implements locallm.DocumentReader.
var _ locallm.DocumentReader = (*Reader)(nil)

// documentPart is the archive member holding the main document body.
const documentPart = "word/document.xml"

// Reader implements locallm.DocumentReader for .docx files.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadDocument returns the non-empty paragraphs of the document joined by
// blank lines.
func (r *Reader) ReadDocument(ctx context.Context, path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", locallm.Errorf(locallm.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return "", fmt.Errorf("opening docx %s: %w", path, err)
	}
	defer archive.Close()

	part, err := archive.Open(documentPart)
	if err != nil {
		return "", locallm.Errorf(locallm.EINVALID, "%s has no %s part", path, documentPart)
	}
	defer part.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(part); err != nil {
		return "", fmt.Errorf("parsing %s: %w", documentPart, err)
	}

	var paragraphs []string
	for _, p := range doc.FindElements("//w:p") {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if text := strings.TrimSpace(paragraphText(p)); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// paragraphText concatenates the runs of a paragraph, rendering tabs and
// line breaks.
func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			switch {
			case child.Space == "w" && child.Tag == "t":
				sb.WriteString(child.Text())
			case child.Space == "w" && child.Tag == "tab":
				sb.WriteByte('\t')
			case child.Space == "w" && (child.Tag == "br" || child.Tag == "cr"):
				sb.WriteByte('\n')
			case child.Space == "w" && child.Tag == "p":
				// Nested paragraphs are visited on their own.
			default:
				walk(child)
			}
		}
	}
	walk(p)
	return sb.String()
}
