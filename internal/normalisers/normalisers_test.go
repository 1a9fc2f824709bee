package normalisers

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

// buildDocx assembles a minimal DOCX container with the given paragraphs.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestRegistry_PlaintextFallback(t *testing.T) {
	r := Default()

	text, err := r.Extract(context.Background(), "notes.txt", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	text, err = r.Extract(context.Background(), "no-extension", []byte("still text"))
	require.NoError(t, err)
	assert.Equal(t, "still text", text)
}

func TestRegistry_PlaintextRejectsBinary(t *testing.T) {
	r := Default()

	_, err := r.Extract(context.Background(), "blob.bin", []byte{0xff, 0xfe, 0x00, 0x80})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_Docx(t *testing.T) {
	r := Default()

	data := buildDocx(t, "First paragraph.", "Second paragraph.")
	text, err := r.Extract(context.Background(), "report.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
}

func TestRegistry_DocxCaseInsensitiveExtension(t *testing.T) {
	r := Default()

	data := buildDocx(t, "Content.")
	text, err := r.Extract(context.Background(), "REPORT.DOCX", data)
	require.NoError(t, err)
	assert.Equal(t, "Content.", text)
}

func TestRegistry_CorruptDocx(t *testing.T) {
	r := Default()

	_, err := r.Extract(context.Background(), "broken.docx", []byte("not a zip"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_DocxWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("unrelated.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("nothing here"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Default().Extract(context.Background(), "odd.docx", buf.Bytes())
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_CSV(t *testing.T) {
	r := Default()

	text, err := r.Extract(context.Background(), "people.csv", []byte("name,age\nAda,36\nLin,29"))
	require.NoError(t, err)
	assert.Equal(t, "name, age\nAda, 36\nLin, 29", text)
}

func TestRegistry_CSVCaseInsensitiveExtension(t *testing.T) {
	r := Default()

	text, err := r.Extract(context.Background(), "EXPORT.CSV", []byte("a,b"))
	require.NoError(t, err)
	assert.Equal(t, "a, b", text)
}

func TestRegistry_CSVRaggedRows(t *testing.T) {
	r := Default()

	text, err := r.Extract(context.Background(), "ragged.csv", []byte("a,b,c\nd\ne,f"))
	require.NoError(t, err)
	assert.Equal(t, "a, b, c\nd\ne, f", text)
}

func TestRegistry_CorruptCSV(t *testing.T) {
	r := Default()

	_, err := r.Extract(context.Background(), "broken.csv", []byte("a,\"unterminated\nb,c"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_CorruptPDF(t *testing.T) {
	r := Default()

	_, err := r.Extract(context.Background(), "broken.pdf", []byte("%PDF-1.4 truncated garbage"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_NoNormalisers(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract(context.Background(), "anything.txt", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
