// Package docx extracts paragraph text from Word (.docx) uploads.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// documentPart is the archive member holding the main document body.
const documentPart = "word/document.xml"

// errNoDocumentPart is returned for zip archives that are not Word documents.
var errNoDocumentPart = errors.New("missing " + documentPart)

// Normalise returns the text of the document's paragraphs in order,
// one paragraph per line.
func Normalise(content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	body, err := readDocumentPart(reader)
	if err != nil {
		return "", err
	}
	return parseDocumentXML(body)
}

func readDocumentPart(reader *zip.Reader) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", documentPart, err)
		}
		return content, nil
	}
	return nil, errNoDocumentPart
}

// wordNS is the WordprocessingML main namespace.
const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// parseDocumentXML walks the document tokens and emits one line per
// paragraph, table cell paragraphs included. Text is taken from every w:t
// inside a run, wherever the run sits (hyperlinks, smart tags, fields).
// Inside a run w:tab becomes a tab and w:br or w:cr a line break.
func parseDocumentXML(content []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		lines     []string
		line      strings.Builder
		paraDepth int
		runDepth  int
		inText    bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", documentPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "p":
				paraDepth++
			case "r":
				runDepth++
			case "t":
				inText = runDepth > 0
			case "tab":
				if runDepth > 0 {
					line.WriteByte('\t')
				}
			case "br", "cr":
				if runDepth > 0 {
					line.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "p":
				paraDepth--
				// Paragraphs nested in text boxes join their outer paragraph.
				if paraDepth == 0 {
					lines = append(lines, line.String())
					line.Reset()
				}
			case "r":
				runDepth--
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && paraDepth > 0 {
				line.Write(el)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
