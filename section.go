package locallm

import (
	"regexp"
	"strings"
)

var (
	headingRe   = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+?)\s*#*\s*$`)
	codeBlockRe = regexp.MustCompile("(?s)```.*?```")
)

// Section represents a heading in a markdown document.
type Section struct {
	Level int
	Title string
}

// ExtractSections parses markdown and returns all headings (H1-H6) in
// document order. Headings inside fenced code blocks are ignored.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	cleaned := codeBlockRe.ReplaceAllString(markdown, "")
	matches := headingRe.FindAllStringSubmatch(cleaned, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for _, match := range matches {
		title := strings.TrimSpace(match[2])
		if title == "" {
			continue
		}
		sections = append(sections, Section{Level: len(match[1]), Title: title})
	}
	return sections
}

// FormatOutline renders sections as an indented table of contents.
func FormatOutline(sections []Section) string {
	var sb strings.Builder
	for _, s := range sections {
		sb.WriteString(strings.Repeat("  ", s.Level-1))
		sb.WriteString(s.Title)
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
