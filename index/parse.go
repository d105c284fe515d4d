package index

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var thinkingRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<think>.*?</think>`),
	regexp.MustCompile(`(?is)<thinking>.*?</thinking>`),
	regexp.MustCompile(`(?i)<think>\s*`),
}

// Analysis is the structured document summary requested from the model.
type Analysis struct {
	Description string   `json:"description"`
	KeyConcepts []string `json:"key_concepts"`
}

// StripThinking removes reasoning markup that some models emit before their
// answer, including an unterminated opening tag.
func StripThinking(s string) string {
	for _, re := range thinkingRes {
		s = re.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// ParseAnalysis decodes the first JSON object in a model response after
// removing reasoning markup.
func ParseAnalysis(response string) (*Analysis, error) {
	text := StripThinking(response)

	var lastErr error = errors.New("no JSON object in response")
	for i := strings.IndexByte(text, '{'); i >= 0; {
		var a Analysis
		err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&a)
		if err == nil {
			a.Description = strings.TrimSpace(a.Description)
			return &a, nil
		}
		lastErr = err

		next := strings.IndexByte(text[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, lastErr
}
