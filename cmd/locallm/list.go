package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/fs"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	styles := NewStyles(deps.Stdout)

	fmt.Fprintf(deps.Stdout, "%s %s\n\n", paint(styles.Title, "Scanning:"), deps.Dir)

	docs, err := fs.ListDocuments(deps.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locallm.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, paint(styles.Warning, "No documents found in this directory"))
		fmt.Fprintln(deps.Stdout, paint(styles.Muted, "Supported formats: PDF, DOCX, TXT, MD, HTML"))
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE NAME\tTYPE\tSIZE\tPATH")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", doc.Name, doc.Type, formatSize(doc.Size), doc.Path)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "\n%d document(s)\n", len(docs))
	return nil
}

// formatSize renders a byte count in the largest unit that keeps it above one.
func formatSize(size int64) string {
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(size)/(1<<30))
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	default:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	}
}
