// Package cipher implements the keyed character shift used to obfuscate store files.
//
// It is not encryption. Anyone holding a file can recover the key by trying
// a handful of shifts.
package cipher

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultKey is the shift historically used for every store file.
const DefaultKey = 23

// Reserved characters are never shifted.
const (
	LineTerminator = '\n'
	FieldDelimiter = '*'
)

// ErrInvalidUTF8 is returned for input that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("text is not valid UTF-8")

// ErrOutOfRange is returned when a shifted code point is not a valid Unicode scalar value.
var ErrOutOfRange = errors.New("shifted code point out of range")

// Encode shifts every non-reserved rune of text up by key.
func Encode(text string, key int) (string, error) {
	return shift(text, key)
}

// Decode shifts every non-reserved rune of text down by key.
func Decode(text string, key int) (string, error) {
	return shift(text, -key)
}

// shift adds delta to every rune except the reserved ones. There is no
// wraparound, so stored files stay byte-compatible with existing data.
func shift(text string, delta int) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrInvalidUTF8
	}
	if delta == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for i, r := range text {
		if r == LineTerminator || r == FieldDelimiter {
			b.WriteRune(r)
			continue
		}
		code := int64(r) + int64(delta)
		if code < 0 || code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
			return "", fmt.Errorf("rune %q at byte %d shifted by %d: %w", r, i, delta, ErrOutOfRange)
		}
		b.WriteRune(rune(code))
	}
	return b.String(), nil
}
