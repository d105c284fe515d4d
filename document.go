package locallm

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

// SupportedExtensions lists the document extensions that are indexed.
var SupportedExtensions = []string{".pdf", ".docx", ".doc", ".txt", ".md", ".markdown", ".html", ".htm"}

// IsSupported reports whether path has a supported document extension.
// The comparison is case-insensitive.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// FileType returns the extension of path without the leading dot.
func FileType(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// Title returns the file name of path without its extension.
func Title(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DocumentInfo describes a document file on disk.
type DocumentInfo struct {
	// Path relative to the listed directory.
	Path    string
	Name    string
	Type    string
	Size    int64
	ModTime time.Time
}

// DocumentReader extracts the plain text of a document.
type DocumentReader interface {
	// ReadDocument returns the text content of the document at path.
	// Returns ENOTFOUND if the file does not exist and EUNSUPPORTED if the
	// format cannot be read.
	ReadDocument(ctx context.Context, path string) (string, error)
}

// EpochSeconds converts t to fractional seconds since the Unix epoch.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
