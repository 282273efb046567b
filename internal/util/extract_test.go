package util

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTextDOCX(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Go</w:t></w:r><w:r><w:tab/><w:t>Kubernetes</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := ExtractText(buildDOCX(t, doc), "Jane_CV.DOCX")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo\tKubernetes", text)
}

func TestExtractTextErrors(t *testing.T) {
	_, err := ExtractText([]byte("hello"), "resume.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ExtractText(nil, "resume.pdf")
	assert.ErrorIs(t, err, ErrCorruptDocument)

	_, err = ExtractText([]byte("not a zip"), "resume.docx")
	assert.ErrorIs(t, err, ErrCorruptDocument)

	_, err = ExtractText(buildDOCX(t, `<w:document xmlns:w="x"><w:body></w:body></w:document>`), "empty.docx")
	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.pdf"))
	assert.True(t, IsSupported("A.DOCX"))
	assert.True(t, IsSupported("legacy.doc"))
	assert.False(t, IsSupported("notes.txt"))
	assert.False(t, IsSupported("pdf"))
}
