package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>jane@example.com</w:t></w:r><w:r><w:tab/><w:t>555-123-4567</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Software Engineer at Acme</w:t></w:r></w:p>` +
	`</w:body></w:document>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func sampleDocx(t *testing.T) []byte {
	return buildDocx(t, map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": relsXML,
	})
}

func TestExtractTextFromBytes_Docx(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), sampleDocx(t), MimeDOCX, "resume.docx")
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Jane Doe", lines[0])
	assert.Equal(t, "jane@example.com\t555-123-4567", lines[1])
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), sampleDocx(t), "application/zip", "test.docx")
	require.NoError(t, err)
}

func TestExtractTextFromBytes_MislabeledDocAcceptedWhenOOXML(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), sampleDocx(t), MimeDOC, "resume.doc")
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
}

func TestExtractTextFromBytes_BinaryDocIsCorrupt(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte{0xD0, 0xCF, 0x11, 0xE0}, MimeDOC, "resume.doc")
	require.Error(t, err)
	assert.True(t, IsKind(err, CorruptDocument))
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	data := buildDocx(t, map[string]string{"notes.txt": "hello"})

	_, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "notes.zip")
	require.Error(t, err)
	assert.True(t, IsKind(err, UnsupportedFormat))
	assert.Contains(t, err.Error(), "application/zip")
}

func TestExtractTextFromBytes_UnsupportedMime(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("\x89PNG"), "image/png", "photo.png")
	require.Error(t, err)

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, UnsupportedFormat, extractErr.Kind)
	assert.Equal(t, "image/png", extractErr.MimeType)
}

func TestExtractTextFromBytes_CorruptPDF(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("%PDF-1.4 definitely not a pdf"), MimePDF, "resume.pdf")
	require.Error(t, err)
	assert.True(t, IsKind(err, CorruptDocument))
}

func TestExtractTextFromBytes_EmptyDocx(t *testing.T) {
	empty := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p></w:p></w:body></w:document>`
	data := buildDocx(t, map[string]string{
		"word/document.xml":            empty,
		"word/_rels/document.xml.rels": relsXML,
	})

	_, err := ExtractTextFromBytes(context.Background(), data, MimeDOCX, "blank.docx")
	require.Error(t, err)
	assert.True(t, IsKind(err, EmptyContent))
}

func TestExtractTextFromBytes_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractTextFromBytes(ctx, sampleDocx(t), MimeDOCX, "resume.docx")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeMimeType_SniffsPDFFromOctetStream(t *testing.T) {
	assert.Equal(t, MimePDF, normalizeMimeType("application/octet-stream", "cv.bin", []byte("%PDF-1.7")))
	assert.Equal(t, MimePDF, normalizeMimeType("", "cv.pdf", nil))
	assert.Equal(t, MimeDOCX, normalizeMimeType("", "cv.docx", nil))
	assert.Equal(t, MimePDF, normalizeMimeType("Application/PDF; charset=binary", "x", nil))
}

func TestReadDocument_EnforcesLimit(t *testing.T) {
	data, err := ReadDocument(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(data))

	_, err = ReadDocument(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestExtractTextFromBytes_MalformedDocxXMLIsCorrupt(t *testing.T) {
	broken := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Jane Doe, Senior Software Engineer with ten years of backend experience</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Broken & unescaped</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := buildDocx(t, map[string]string{
		"word/document.xml":            broken,
		"word/_rels/document.xml.rels": relsXML,
	})

	text, err := ExtractTextFromBytes(context.Background(), data, MimeDOCX, "resume.docx")
	require.Error(t, err)
	assert.Empty(t, text)
	assert.True(t, IsKind(err, CorruptDocument))
}

func TestStripDocxXML(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "paragraphs", raw: `<w:p><w:t>Jane Doe</w:t></w:p><w:p><w:t>Engineer</w:t></w:p>`, want: "Jane Doe\nEngineer"},
		{name: "tab", raw: `<w:p><w:t>a</w:t><w:tab/><w:t>b</w:t></w:p>`, want: "a\tb"},
		{name: "bare ampersand", raw: `<w:p><w:t>Jane Doe</w:t></w:p><w:p><w:t>Broken & unescaped</w:t></w:p>`, wantErr: true},
		{name: "truncated", raw: `<w:p><w:t>Jane Doe</w:t></w:p><w:p><w:t>cut off`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := stripDocxXML(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
