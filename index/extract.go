package index

import (
	"regexp"
	"strings"

	"github.com/fwojciec/locallm"
)

// Fast-mode extraction bounds, counted in runes.
const (
	extractLimit    = 2000
	tocSearchWindow = 3000
	minBlockLength  = 50
	minFastBlock    = 100
)

var (
	abstractStartRe = regexp.MustCompile(`(?im)(?:^|\n)\s*(?:摘要|ABSTRACT|Abstract|執行摘要|Executive Summary)\s*[:：\n]`)

	abstractEndRes = []*regexp.Regexp{
		regexp.MustCompile(`(?im)(?:^|\n)\s*(?:關鍵詞|Keywords?|Introduction|1\.|I\.)\s*[:：\n]`),
		regexp.MustCompile(`(?im)(?:^|\n)\s*(?:一、|第一章)`),
	}

	tocMarkerRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:目錄|Table of Contents|Contents)\s*[:：\n]`),
		regexp.MustCompile(`(?i)(?:大綱|Outline)\s*[:：\n]`),
	}
)

// ExtractAbstract returns the abstract or executive summary of content, up
// to maxChars runes. It ends at the first following section marker. Returns
// "" when no abstract longer than 50 runes is found.
func ExtractAbstract(content string, maxChars int) string {
	loc := abstractStartRe.FindStringIndex(content)
	if loc == nil {
		return ""
	}

	rest := content[loc[1]:]
	text := truncate(rest, maxChars)
	for _, re := range abstractEndRes {
		end := re.FindStringIndex(rest)
		if end != nil && runeLen(rest[:end[0]]) < maxChars {
			text = rest[:end[0]]
			break
		}
	}

	text = strings.TrimSpace(text)
	if runeLen(text) <= minBlockLength {
		return ""
	}
	return text
}

// ExtractTOC returns up to maxChars runes following a table of contents or
// outline marker found within the first 3000 runes, with whitespace
// collapsed. Returns "" when nothing longer than 50 runes is found.
func ExtractTOC(content string, maxChars int) string {
	window := truncate(content, tocSearchWindow)
	for _, re := range tocMarkerRes {
		loc := re.FindStringIndex(window)
		if loc == nil {
			continue
		}
		toc := collapseSpace(truncate(content[loc[1]:], maxChars))
		if runeLen(toc) <= minBlockLength {
			return ""
		}
		return toc
	}
	return ""
}

// ExtractTOCOrAbstract prefers an abstract and falls back to a table of
// contents.
func ExtractTOCOrAbstract(content string, maxChars int) string {
	if abstract := ExtractAbstract(content, maxChars); abstract != "" {
		return abstract
	}
	return ExtractTOC(content, maxChars)
}

// ExtractOutline renders the markdown headings of content as a table of
// contents.
func ExtractOutline(content string, maxChars int) string {
	return truncate(locallm.FormatOutline(locallm.ExtractSections(content)), maxChars)
}
