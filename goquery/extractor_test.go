package goquery_test

import (
	"testing"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().Extract("")

		assert.Equal(t, locallm.EINVALID, locallm.ErrorCode(err))
	})

	t.Run("prefers main content and drops boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<html>
<head><title>Budget</title><style>p { color: red }</style></head>
<body>
<nav><a href="/">Menu Link</a></nav>
<main>
<p>Project Alpha uses 8GB.</p>
<script>trackVisit()</script>
<aside class="sidebar">Related pages</aside>
</main>
<footer>Legal notice</footer>
</body>
</html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Budget", result.Title)
		assert.Contains(t, result.ContentHTML, "Project Alpha uses 8GB.")
		assert.NotContains(t, result.ContentHTML, "Menu Link")
		assert.NotContains(t, result.ContentHTML, "trackVisit")
		assert.NotContains(t, result.ContentHTML, "Related pages")
		assert.NotContains(t, result.ContentHTML, "Legal notice")
	})

	t.Run("uses documentation content class", func(t *testing.T) {
		t.Parallel()

		html := `<body><div class="wrapper"><div class="doc-content"><h2>Install</h2><p>Run the installer.</p></div></div></body>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, `class="doc-content"`)
		assert.Contains(t, result.ContentHTML, "Run the installer.")
	})

	t.Run("falls back to body", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(`<div><p>Plain page text.</p></div>`)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Plain page text.")
	})

	t.Run("takes title from first heading without metadata", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(`<body><h1> Release Notes </h1><p>v2</p></body>`)

		require.NoError(t, err)
		assert.Equal(t, "Release Notes", result.Title)
	})

	t.Run("returns no content for boilerplate only page", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(`<body><nav>Home</nav><footer>Copyright</footer></body>`)

		require.NoError(t, err)
		assert.Empty(t, result.ContentHTML)
	})
}
