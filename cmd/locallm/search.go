package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/agent"
	"github.com/fwojciec/locallm/fs"
)

// searchContextLines is the context shown around matches when searching
// every document.
const searchContextLines = 2

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	styles := NewStyles(deps.Stdout)
	tools := agent.NewToolbox(deps.Dir, deps.Reader)

	fmt.Fprintf(deps.Stdout, "%s '%s'\n\n", paint(styles.Title, "Searching for:"), c.Keyword)

	if c.File != "" {
		result := tools.Search(deps.Ctx, c.Keyword, c.File, agent.DefaultContextLines)
		fmt.Fprintln(deps.Stdout, paint(styles.Label, "Results in "+filepath.Base(c.File)))
		fmt.Fprintln(deps.Stdout, result)
		if strings.HasPrefix(result, "Error:") {
			return locallm.Errorf(locallm.EINVALID, "%s", strings.TrimPrefix(result, "Error: "))
		}
		return nil
	}

	found, err := searchDocuments(deps.Ctx, deps.Stdout, styles, tools, deps.Dir, c.Keyword)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locallm.ErrorMessage(err))
		return err
	}
	if found == 0 {
		fmt.Fprintln(deps.Stdout, paint(styles.Warning, fmt.Sprintf("No matches found for '%s'", c.Keyword)))
	}
	return nil
}

// searchDocuments greps every supported document under dir and writes one
// block per document with matches. It returns the number of such documents.
func searchDocuments(ctx context.Context, w io.Writer, styles *Styles, tools *agent.Toolbox, dir, keyword string) (int, error) {
	paths, err := fs.Discover(dir)
	if err != nil {
		return 0, err
	}

	var found int
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		result := tools.Search(ctx, keyword, path, searchContextLines)
		if strings.HasPrefix(result, "Error: invalid pattern") {
			return found, locallm.Errorf(locallm.EINVALID, "%s", strings.TrimPrefix(result, "Error: "))
		}
		if strings.HasPrefix(result, "No matches") || strings.HasPrefix(result, "Error:") {
			continue
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		fmt.Fprintf(w, "%s %s\n", paint(styles.Success, filepath.Base(path)), paint(styles.Muted, "("+rel+")"))
		fmt.Fprintln(w, result)
		fmt.Fprintln(w)
		found++
	}
	return found, nil
}
