package index

import (
	"strings"
	"unicode/utf8"
)

// Sampling limits, counted in runes.
const (
	FastSampleLimit = 8000
	FullSampleLimit = 32000

	fastJoiner = "\n\n...\n\n"
	fullJoiner = "\n\n[... middle content truncated ...]\n\n"
)

// Sample returns content unchanged when it has at most limit runes.
// Otherwise it keeps the first 60% and the last 40% of limit runes joined
// by joiner.
func Sample(content string, limit int, joiner string) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	head := limit * 6 / 10
	tail := limit - head
	return string(runes[:head]) + joiner + string(runes[len(runes)-tail:])
}

// SampleFast samples content for fast-mode extraction.
func SampleFast(content string) string {
	return Sample(content, FastSampleLimit, fastJoiner)
}

// SampleFull samples content for full-mode analysis.
func SampleFull(content string) string {
	return Sample(content, FullSampleLimit, fullJoiner)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// collapseSpace replaces every run of whitespace with a single space and
// trims the ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
