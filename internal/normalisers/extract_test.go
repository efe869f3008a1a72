package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"notes.txt", FormatPlainText},
		{"NOTES.TXT", FormatPlainText},
		{"lecture.pdf", FormatPDF},
		{"essay.docx", FormatDOCX},
		{"essay.doc", FormatUnknown},
		{"slides.pptx", FormatUnknown},
		{"README", FormatUnknown},
		{"archive.tar.gz", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFromFilename(tt.filename))
		})
	}
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, ".txt", FormatPlainText.String())
	assert.Equal(t, ".pdf", FormatPDF.String())
	assert.Equal(t, ".docx", FormatDOCX.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract([]byte("Photosynthesis converts light."), FormatPlainText)

	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis converts light.", text)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	_, err := Extract([]byte("x"), FormatUnknown)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestExtract_CorruptInputIsExtractionFailure(t *testing.T) {
	for _, f := range []Format{FormatPDF, FormatDOCX} {
		t.Run(f.String(), func(t *testing.T) {
			_, err := Extract([]byte("definitely not a binary document"), f)
			assert.ErrorIs(t, err, domain.ErrExtractionFailed)
		})
	}
}

func TestExtract_EmptyPlainTextIsNotAnError(t *testing.T) {
	text, err := Extract(nil, FormatPlainText)

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractText_NeverFails(t *testing.T) {
	assert.Empty(t, ExtractText([]byte("junk"), FormatPDF))
	assert.Empty(t, ExtractText([]byte("junk"), FormatDOCX))
	assert.Empty(t, ExtractText([]byte("junk"), FormatUnknown))
	assert.Equal(t, "ok", ExtractText([]byte("ok"), FormatPlainText))
}

func TestExtractor(t *testing.T) {
	var e Extractor

	assert.True(t, e.Supports("Week1.PDF"))
	assert.False(t, e.Supports("week1.pptx"))

	text, err := e.Extract("notes.txt", []byte("cell biology"))
	require.NoError(t, err)
	assert.Equal(t, "cell biology", text)

	_, err = e.Extract("notes.rtf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
