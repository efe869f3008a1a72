// Package pdf extracts text from PDF uploads using github.com/ledongthuc/pdf.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// Normalise returns the text of every page in page order, joined by "\n".
// Each page's text is trimmed of surrounding whitespace. A page that is
// empty or fails to decode contributes "" and does not abort the document.
// Only a file that cannot be opened at all is an error.
func Normalise(content []byte) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	n := reader.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, pageText(reader, i))
	}
	return strings.Join(pages, "\n"), nil
}

func pageText(reader *pdf.Reader, num int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("pdf page %d: parser panic: %v", num, r)
			text = ""
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		logger.Debug("pdf page %d: %v", num, err)
		return ""
	}
	// The parser opens every text object with a newline.
	return strings.TrimSpace(text)
}
