package locallm

import (
	"fmt"
	"strings"
)

// FormatKnowledgeMap renders a compact listing of the indexed documents.
// Entries are separated by blank lines.
func FormatKnowledgeMap(m *KnowledgeMap) string {
	if m == nil || len(m.Documents) == 0 {
		return ""
	}

	parts := make([]string, 0, len(m.Documents))
	for _, doc := range m.Documents {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  %s (%s, %.2f KB)\n", doc.ID, doc.Title, strings.ToUpper(doc.FileType), doc.SizeKB)
		fmt.Fprintf(&sb, "    Path: %s\n", doc.Path)
		fmt.Fprintf(&sb, "    Concepts: %s", strings.Join(doc.KeyConcepts, ", "))
		parts = append(parts, sb.String())
	}

	return strings.Join(parts, "\n\n")
}

// FormatSize renders a byte count the way model listings show it.
func FormatSize(n int64) string {
	switch {
	case n > 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	case n > 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
}
