package driven

// TextExtractor turns uploaded file bytes into plain text.
type TextExtractor interface {
	// Supports reports whether the file name has an accepted extension.
	Supports(filename string) bool

	// Extract returns the document text. A document that parses but holds
	// no text returns "" and a nil error.
	Extract(filename string, content []byte) (string, error)
}

// Chunker splits extracted text into overlapping passages.
type Chunker interface {
	Chunk(text string) []string
}
