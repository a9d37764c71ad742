// Package textenc decodes historical log file bytes into text.
package textenc

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decode interprets raw bytes as UTF-8. When the bytes are not valid UTF-8
// it retries the whole input as Latin-1, which maps every byte to a rune,
// so old day files written before the server switched encodings still read.
// usedFallback reports that the Latin-1 path was taken; callers should log
// it but not fail the request for it.
func Decode(raw []byte) (text string, usedFallback bool, err error) {
	if utf8.Valid(raw) {
		return string(raw), false, nil
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", true, err
	}
	return string(out), true, nil
}
