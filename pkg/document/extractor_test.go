package document

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
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

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract("notes.txt", []byte("hello\n\n  world\t again"))
	require.NoError(t, err)
	assert.Equal(t, "hello world again", text)
}

func TestExtract_Markdown(t *testing.T) {
	text, err := Extract("README.md", []byte("# Title\n\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "# Title body", text)
}

func TestExtract_Docx(t *testing.T) {
	xmlDoc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Mindfulness reduces</w:t></w:r></w:p>
    <w:p><w:r><w:t>stress levels.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	text, err := Extract("guide.docx", buildDocx(t, xmlDoc))
	require.NoError(t, err)
	assert.Equal(t, "Mindfulness reduces stress levels.", text)
}

func TestExtract_DocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Extract("broken.docx", buf.Bytes())
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestExtract_DocxInvalidZip(t *testing.T) {
	_, err := Extract("broken.docx", []byte("not a zip"))
	assert.ErrorContains(t, err, "zip")
}

func TestExtract_UnsupportedType(t *testing.T) {
	_, err := Extract("photo.png", []byte{0x89, 0x50})
	var ute *UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, ".png", ute.Extension)
}

func TestExtract_EmptyFile(t *testing.T) {
	_, err := Extract("empty.pdf", nil)
	assert.Error(t, err)
}
