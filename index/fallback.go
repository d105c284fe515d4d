package index

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Fallback bounds, counted in runes.
const (
	introLength       = 300
	introSkip         = 200
	introSkipMinimum  = 500
	minDescription    = 50
	conceptWindow     = 5000
	maxConcepts       = 10
	minQuadOccurrence = 3
	maxFilenameRuns   = 3
)

var (
	capitalizedRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	technicalRe   = regexp.MustCompile(`\b[A-Za-z]+[-_][A-Za-z0-9]+\b`)
	hanRe         = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
	hanQuadRe     = regexp.MustCompile(`[\x{4e00}-\x{9fff}]{4}`)
	hanRunRe      = regexp.MustCompile(`[\x{4e00}-\x{9fff}]+`)
)

var conceptStopwords = map[string]bool{
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"And": true, "Or": true, "But": true,
	"Page": true, "Figure": true, "Table": true, "Section": true, "Chapter": true,
}

var conceptBlacklist = map[string]bool{
	"page": true, "figure": true, "table": true, "section": true, "chapter": true,
	"appendix": true, "reference": true, "abstract": true, "introduction": true,
	"conclusion": true, "university": true, "department": true, "institute": true,
}

// Fallback derives a description and key concepts from content without a
// model.
func Fallback(title, content, fileType string) (string, []string) {
	description := Introduction(content, introLength)
	if runeLen(description) < minDescription {
		description = fmt.Sprintf("%s document: %s", fileType, title)
	}
	return description, KeyConcepts(content, maxConcepts)
}

// Introduction returns a whitespace-collapsed leading snippet of content of
// at most maxChars runes, followed by "..." when cut. Documents longer than
// 500 runes skip their first 200 runes as a likely title page.
func Introduction(content string, maxChars int) string {
	runes := []rune(content)
	start := 0
	if len(runes) > introSkipMinimum {
		start = introSkip
	}
	end := min(len(runes), start+maxChars*2)

	text := collapseSpace(string(runes[start:end]))
	if runeLen(text) > maxChars {
		return strings.TrimSpace(truncate(text, maxChars)) + "..."
	}
	return text
}

// KeyConcepts extracts up to max candidate concepts from content: capitalized
// phrases, hyphenated or underscored technical tokens and, for CJK text,
// four-character runs that recur at least three times. Candidates are ranked
// by frequency in content with ties broken lexically.
func KeyConcepts(content string, max int) []string {
	head := truncate(content, conceptWindow)

	candidates := capitalizedRe.FindAllString(head, -1)
	candidates = append(candidates, technicalRe.FindAllString(head, -1)...)
	if hanRe.MatchString(content) {
		candidates = append(candidates, frequentQuads(head)...)
	}

	seen := make(map[string]bool, len(candidates))
	var filtered []string
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		if conceptStopwords[c] || runeLen(c) <= 2 {
			continue
		}
		filtered = append(filtered, c)
	}

	counts := make(map[string]int, len(filtered))
	for _, c := range filtered {
		counts[c] = strings.Count(content, c)
	}
	sort.Slice(filtered, func(i, j int) bool {
		if counts[filtered[i]] != counts[filtered[j]] {
			return counts[filtered[i]] > counts[filtered[j]]
		}
		return filtered[i] < filtered[j]
	})

	filtered = FilterConcepts(filtered)
	if len(filtered) > max {
		filtered = filtered[:max]
	}
	return filtered
}

// frequentQuads returns the ten most common four-character CJK runs of text
// that occur at least three times.
func frequentQuads(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, quad := range hanQuadRe.FindAllString(text, -1) {
		if counts[quad] == 0 {
			order = append(order, quad)
		}
		counts[quad]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxConcepts {
		order = order[:maxConcepts]
	}

	var quads []string
	for _, quad := range order {
		if counts[quad] >= minQuadOccurrence {
			quads = append(quads, quad)
		}
	}
	return quads
}

// FilterConcepts drops concepts shorter than two runes, generic document
// words and anything that looks like an email address.
func FilterConcepts(concepts []string) []string {
	var filtered []string
	for _, concept := range concepts {
		concept = strings.TrimSpace(concept)
		lower := strings.ToLower(concept)
		if runeLen(lower) < 2 || conceptBlacklist[lower] || strings.Contains(lower, "@") {
			continue
		}
		filtered = append(filtered, concept)
	}
	return filtered
}

// FilenameConcepts derives concepts from a file stem: its CJK runs (up to
// three) when it contains CJK text, otherwise the stem itself.
func FilenameConcepts(stem, fileType string) []string {
	fallback := []string{fileType + " document"}
	if hanRe.MatchString(stem) {
		if runs := hanRunRe.FindAllString(stem, maxFilenameRuns); len(runs) > 0 {
			return runs
		}
		return fallback
	}
	if strings.TrimSpace(stem) == "" {
		return fallback
	}
	return []string{stem}
}
