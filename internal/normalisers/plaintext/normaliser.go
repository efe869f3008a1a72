// Package plaintext decodes plain text uploads.
package plaintext

import (
	"strings"
	"unicode/utf8"
)

// Normalise decodes content as UTF-8. Every byte that is not part of a
// valid sequence becomes U+FFFD, so the result is always valid UTF-8 and
// decoding never fails.
func Normalise(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}

	var b strings.Builder
	b.Grow(len(content))
	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(content[:size])
		}
		content = content[size:]
	}
	return b.String()
}
