// Package normalisers turns uploaded file bytes into plain text.
//
// The supported formats are a closed set: plain text, PDF and Word
// (.docx). Each lives in its own subpackage as a pure bytes-to-text
// function; this package selects one by Format.
//
// Extract reports failures as errors so callers can tell a corrupt file
// from a legitimately empty one; ingestion uses it through Extractor.
// ExtractText is the never-fails form and collapses every failure to "".
package normalisers
