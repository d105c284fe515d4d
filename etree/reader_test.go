package etree_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Laptop </w:t></w:r><w:r><w:t>Specs</w:t></w:r></w:p>
    <w:p></w:p>
    <w:p><w:r><w:t>RAM:</w:t><w:tab/><w:t>8GB</w:t></w:r></w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell text</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, path string, parts map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestReader_ReadDocument(t *testing.T) {
	t.Parallel()

	t.Run("joins non-empty paragraphs with blank lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "specs.docx")
		writeDocx(t, path, map[string]string{"word/document.xml": documentXML})

		text, err := etree.NewReader().ReadDocument(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "Laptop Specs\n\nRAM:\t8GB\n\nCell text", text)
	})

	t.Run("rejects archive without document part", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.docx")
		writeDocx(t, path, map[string]string{"other.xml": "<x/>"})

		_, err := etree.NewReader().ReadDocument(context.Background(), path)

		assert.Equal(t, locallm.EINVALID, locallm.ErrorCode(err))
	})

	t.Run("returns not found for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := etree.NewReader().ReadDocument(context.Background(), filepath.Join(t.TempDir(), "missing.docx"))

		assert.Equal(t, locallm.ENOTFOUND, locallm.ErrorCode(err))
	})

	t.Run("returns error for non-zip file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "fake.docx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

		_, err := etree.NewReader().ReadDocument(context.Background(), path)

		assert.Error(t, err)
	})
}
