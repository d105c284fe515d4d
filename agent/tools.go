package agent

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/fs"
)

// Tool names understood by Dispatch.
const (
	ToolReadFile = "read_file"
	ToolGrep     = "grep"
	ToolListDocs = "list_docs"
)

// DefaultContextLines is the number of lines shown around a grep match.
const DefaultContextLines = 3

// Toolbox implements the tools the agent may call. Every tool returns a
// string; failures are reported as "Error: ..." text.
type Toolbox struct {
	// Dir resolves relative paths.
	Dir    string
	Reader locallm.DocumentReader
}

// NewToolbox returns tools operating on documents under dir.
func NewToolbox(dir string, reader locallm.DocumentReader) *Toolbox {
	return &Toolbox{Dir: dir, Reader: reader}
}

func (t *Toolbox) resolve(path string) string {
	if path == "" || path == "." {
		return t.Dir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(t.Dir, filepath.FromSlash(path))
}

// Dispatch runs the named tool with its raw argument string.
func (t *Toolbox) Dispatch(ctx context.Context, action, input string) string {
	switch action {
	case ToolReadFile:
		return t.Read(ctx, unquote(input))
	case ToolGrep:
		pattern, path, ok := strings.Cut(input, ",")
		if !ok {
			return "Error: grep requires pattern and file_path"
		}
		return t.Search(ctx, unquote(pattern), unquote(path), DefaultContextLines)
	case ToolListDocs:
		return t.List(unquote(input))
	default:
		return fmt.Sprintf("Error: unknown tool %s", action)
	}
}

// Read returns the full text of the document at path.
func (t *Toolbox) Read(ctx context.Context, path string) string {
	content, err := t.Reader.ReadDocument(ctx, t.resolve(path))
	if err != nil {
		return "Error: " + locallm.ErrorMessage(err)
	}
	return content
}

// Search returns every line of the document at path matching the
// case-insensitive pattern, with contextLines lines on each side.
func (t *Toolbox) Search(ctx context.Context, pattern, path string, contextLines int) string {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Sprintf("Error: invalid pattern %q: %s", pattern, err)
	}

	content, err := t.Reader.ReadDocument(ctx, t.resolve(path))
	if err != nil {
		return "Error: " + locallm.ErrorMessage(err)
	}

	lines := strings.Split(content, "\n")
	var blocks []string
	for i, line := range lines {
		if !re.MatchString(line) {
			continue
		}
		start := max(0, i-contextLines)
		end := min(len(lines), i+contextLines+1)

		var sb strings.Builder
		for j := start; j < end; j++ {
			prefix := "    "
			if j == i {
				prefix = ">>> "
			}
			if j > start {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%sLine %d: %s", prefix, j+1, lines[j])
		}
		blocks = append(blocks, sb.String())
	}

	if len(blocks) == 0 {
		return fmt.Sprintf("No matches found for '%s' in %s", pattern, path)
	}
	return fmt.Sprintf("Found %d match(es) for '%s' in %s:\n\n", len(blocks), pattern, path) +
		strings.Join(blocks, "\n\n---\n\n")
}

// List describes the supported documents under dir, newest first.
func (t *Toolbox) List(dir string) string {
	root := t.resolve(dir)
	if dir == "" {
		dir = "."
	}

	docs, err := fs.ListDocuments(root)
	if err != nil {
		return fmt.Sprintf("Error: listing documents in %s: %s", dir, err)
	}
	if len(docs) == 0 {
		return fmt.Sprintf("No documents found in %s", dir)
	}

	lines := []string{fmt.Sprintf("Found %d document(s) in %s:\n", len(docs), dir)}
	for _, doc := range docs {
		sizeKB := math.Round(float64(doc.Size)/1024*100) / 100
		lines = append(lines,
			fmt.Sprintf("  • %s (%s, %s KB)", doc.Name, doc.Type, strconv.FormatFloat(sizeKB, 'f', -1, 64)),
			"    Path: "+filepath.ToSlash(doc.Path),
		)
	}
	return strings.Join(lines, "\n")
}

// unquote trims whitespace and surrounding quotes from a tool argument.
func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
