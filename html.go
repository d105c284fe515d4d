package locallm

// Page is the readable part of a saved HTML document.
type Page struct {
	// Title comes from the page metadata.
	Title string

	// ContentHTML is the main content with navigation, footers and
	// sidebars removed.
	ContentHTML string
}

// Extractor isolates the readable content of an HTML page.
type Extractor interface {
	Extract(html string) (*Page, error)
}

// Converter turns HTML into Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
