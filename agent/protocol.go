package agent

import "strings"

// Markers of the plain-text tool protocol.
const (
	ActionMarker      = "Action:"
	InputMarker       = "Action Input:"
	FinalAnswerMarker = "Final Answer:"
)

// Directive is a tool invocation requested by the model.
type Directive struct {
	Action string
	Input  string
}

// ParseDirective finds the first line starting with "Action:" and the first
// later line starting with "Action Input:". It reports false unless both are
// present with non-empty values.
func ParseDirective(text string) (Directive, bool) {
	var d Directive
	var sawAction bool
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case !sawAction && strings.HasPrefix(line, ActionMarker):
			d.Action = strings.TrimSpace(strings.TrimPrefix(line, ActionMarker))
			sawAction = true
		case sawAction && strings.HasPrefix(line, InputMarker):
			d.Input = strings.TrimSpace(strings.TrimPrefix(line, InputMarker))
			if d.Action == "" || d.Input == "" {
				return Directive{}, false
			}
			return d, true
		}
	}
	return Directive{}, false
}

// FinalAnswer returns the trimmed text after the first "Final Answer:"
// marker.
func FinalAnswer(text string) (string, bool) {
	_, after, found := strings.Cut(text, FinalAnswerMarker)
	if !found {
		return "", false
	}
	return strings.TrimSpace(after), true
}
