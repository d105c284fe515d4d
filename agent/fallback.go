package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwojciec/locallm/fs"
)

// DefaultIncompletePhrases mark answers where the model gave up.
var DefaultIncompletePhrases = []string{
	"I cannot",
	"I don't have",
	"no information",
	"not found",
	"unable to",
	"無法",
	"找不到",
	"沒有資訊",
}

const (
	fallbackFiles        = 3
	fallbackSnippet      = 200
	fallbackContextLines = 2
)

var keywordRe = regexp.MustCompile(`[\p{L}\p{N}_]{4,}`)

var keywordStopwords = map[string]bool{
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"how": true, "the": true, "this": true, "that": true, "with": true,
	"from": true, "for": true, "are": true, "was": true, "were": true,
}

// Keywords returns the words of question with at least four characters,
// lower-cased, in order, without stopwords.
func Keywords(question string) []string {
	var keywords []string
	for _, word := range keywordRe.FindAllString(strings.ToLower(question), -1) {
		if !keywordStopwords[word] {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// IsIncomplete reports whether answer contains any of phrases, ignoring
// case.
func IsIncomplete(answer string, phrases []string) bool {
	lower := strings.ToLower(answer)
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// KeywordFallback searches every document under the toolbox directory for
// the first keyword of question and returns snippets from up to three
// matching files. It never fails; without a keyword or a match it suggests
// the search command instead.
func (t *Toolbox) KeywordFallback(ctx context.Context, question string) string {
	keywords := Keywords(question)
	if len(keywords) == 0 {
		return "Suggestion: try rephrasing your question or use 'locallm search <keyword>' to search documents directly."
	}
	keyword := keywords[0]

	paths, err := fs.Discover(t.Dir)
	if err != nil {
		return fmt.Sprintf("Suggestion: try 'locallm search %s' to search documents directly.", keyword)
	}

	lines := []string{fmt.Sprintf("Fallback search results (keyword: '%s'):\n", keyword)}
	found := 0
	for _, path := range paths {
		if ctx.Err() != nil || found == fallbackFiles {
			break
		}
		rel, err := filepath.Rel(t.Dir, path)
		if err != nil {
			rel = path
		}
		result := t.Search(ctx, regexp.QuoteMeta(keyword), rel, fallbackContextLines)
		if strings.HasPrefix(result, "No matches") || strings.HasPrefix(result, "Error:") {
			continue
		}
		found++
		lines = append(lines,
			fmt.Sprintf("In %s:", filepath.Base(path)),
			truncate(result, fallbackSnippet)+"...",
			"",
		)
	}

	if found == 0 {
		return fmt.Sprintf("No direct matches found. Try 'locallm search %s' or 'locallm list' to explore available documents.", keyword)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
