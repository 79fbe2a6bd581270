package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-optimizer/internal/export"
	"resume-optimizer/internal/legacy"
)

const sample = "Jane Doe\njane@example.com\n\nEXPERIENCE\nEngineer at Acme & Sons\n\nSKILLS\nGo, SQL\n"

func TestKind(t *testing.T) {
	tests := []struct {
		name, ct, file string
		head           []byte
		want           string
	}{
		{name: "content type", ct: "application/pdf", file: "x.bin", want: MimePDF},
		{name: "content type with params", ct: "text/plain; charset=utf-8", want: MimeText},
		{name: "extension", ct: "application/octet-stream", file: "CV.DOCX", want: MimeDOCX},
		{name: "magic pdf", ct: "application/octet-stream", file: "upload", head: []byte("%PDF-1.7"), want: MimePDF},
		{name: "magic zip", file: "upload", head: []byte("PK\x03\x04rest"), want: MimeDOCX},
		{name: "unknown", ct: "image/png", file: "a.png", head: []byte{0x89, 'P'}, want: "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.ct, tt.file, tt.head))
		})
	}
}

func TestText_PlainPassesThrough(t *testing.T) {
	got, err := Text(MimeText, []byte(sample))
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	_, err = Text(MimeText, []byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestText_GeneratedPDF(t *testing.T) {
	doc := legacy.Layout(legacy.Parse(sample), export.NewPDFMeasurer())
	b, err := export.NewPDF().Bytes(doc)
	require.NoError(t, err)

	got, err := Text(MimePDF, b)
	require.NoError(t, err)
	flat := strings.ReplaceAll(got, " ", "")
	assert.Contains(t, flat, "JaneDoe")
	assert.Contains(t, flat, "EXPERIENCE")
}

func TestText_GeneratedDOCX(t *testing.T) {
	b, err := export.NewDOCX().Bytes(legacy.Parse(sample))
	require.NoError(t, err)

	got, err := Text(MimeDOCX, b)
	require.NoError(t, err)
	lines := strings.Split(got, "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "Jane Doe", lines[0])
	assert.Contains(t, lines, "EXPERIENCE")
	assert.Contains(t, lines, "Engineer at Acme & Sons")
	assert.NotContains(t, got, "<w:")
}

func TestText_Failures(t *testing.T) {
	_, err := Text("image/png", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Text(MimePDF, []byte("%PDF-garbage"))
	assert.Error(t, err)

	_, err = Text(MimeDOCX, []byte("PK not really"))
	assert.Error(t, err)
}
