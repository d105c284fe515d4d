// Package goquery isolates page content with CSS selectors using goquery.
// It recognizes common landmark elements and documentation site class names
// rather than scoring the page.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/locallm"
)

// Ensure Extractor implements locallm.Extractor.
var _ locallm.Extractor = (*Extractor)(nil)

// contentSelectors are tried in order; the first non-empty match wins.
var contentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".content",
	".doc-content",
	".markdown-body",
	"body",
}

// boilerplate is removed before content is selected.
const boilerplate = `script, style, noscript, template, nav, header, footer, aside,
[role="navigation"], .sidebar, .toc, .table-of-contents, .navbar, .menu`

// Extractor implements locallm.Extractor with fixed CSS selectors.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the title and main content of rawHTML. ContentHTML is
// empty when only boilerplate was found.
func (e *Extractor) Extract(rawHTML string) (*locallm.Page, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, locallm.Errorf(locallm.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, locallm.Errorf(locallm.EINVALID, "failed to parse HTML: %v", err)
	}

	page := &locallm.Page{Title: title(doc)}

	doc.Find(boilerplate).Remove()
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 || strings.TrimSpace(sel.Text()) == "" {
			continue
		}
		page.ContentHTML, err = goquery.OuterHtml(sel)
		if err != nil {
			return nil, err
		}
		break
	}
	return page, nil
}

// title prefers the document title, then og:title, then the first heading.
func title(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("head title").First().Text()); t != "" {
		return t
	}
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
