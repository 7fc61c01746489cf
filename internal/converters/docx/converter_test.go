package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDocx builds a minimal DOCX archive containing the given
// document.xml body.
func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestConvert(t *testing.T) {
	path := writeDocx(t, `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>Premier paragraphe.</t></r></p>
    <p><r><t>Second </t></r><r><t>paragraphe.</t></r></p>
  </body>
</document>`)

	got, err := New().Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Premier paragraphe.\nSecond paragraphe.", got)
}

func TestConvert_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("pas une archive"), 0600))

	_, err := New().Convert(context.Background(), path)
	require.Error(t, err)
}

func TestConvert_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "empty.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	_, err = New().Convert(context.Background(), path)
	require.Error(t, err)
}

func TestParseDocumentXML_Malformed(t *testing.T) {
	assert.Equal(t, "", parseDocumentXML([]byte("not xml at all <")))
}
