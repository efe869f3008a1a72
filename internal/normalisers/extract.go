package normalisers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
	"github.com/msa123-tech/StudyConnect-AI/internal/normalisers/docx"
	"github.com/msa123-tech/StudyConnect-AI/internal/normalisers/pdf"
	"github.com/msa123-tech/StudyConnect-AI/internal/normalisers/plaintext"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = Extractor{}

// Format is a supported upload format.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatPlainText
	FormatPDF
	FormatDOCX
)

// String returns the canonical file extension for the format.
func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return ".txt"
	case FormatPDF:
		return ".pdf"
	case FormatDOCX:
		return ".docx"
	default:
		return "unknown"
	}
}

// AllowedExtensions lists the extensions accepted for upload.
func AllowedExtensions() []string {
	return []string{".txt", ".pdf", ".docx"}
}

// FormatFromFilename picks the format from the file extension (case-insensitive).
func FormatFromFilename(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return FormatPlainText
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatUnknown
	}
}

// Extract returns the plain text of content.
//
// Unknown formats return domain.ErrUnsupportedFormat. Parse failures wrap
// domain.ErrExtractionFailed. A document that parses but holds no text
// returns "" and a nil error.
func Extract(content []byte, format Format) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatPlainText:
		text = plaintext.Normalise(content)
	case FormatPDF:
		text, err = pdf.Normalise(content)
	case FormatDOCX:
		text, err = docx.Normalise(content)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, format, err)
	}
	return text, nil
}

// ExtractText is Extract without errors: any failure yields "".
func ExtractText(content []byte, format Format) string {
	text, err := Extract(content, format)
	if err != nil {
		logger.Debug("extract %s failed: %v", format, err)
		return ""
	}
	return text
}

// Extractor adapts Extract to the driven.TextExtractor port, choosing the
// format from the file name.
type Extractor struct{}

// Supports reports whether filename has an accepted extension.
func (Extractor) Supports(filename string) bool {
	return FormatFromFilename(filename) != FormatUnknown
}

// Extract extracts text from content using the format implied by filename.
func (Extractor) Extract(filename string, content []byte) (string, error) {
	return Extract(content, FormatFromFilename(filename))
}
