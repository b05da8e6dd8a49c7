// Package thaitext decodes TIS-620, the 8-bit Thai character set the national
// ID card stores its text fields in.
//
// TIS-620 keeps ASCII in 0x00-0x7F, C1 controls in 0x80-0x9F and Thai script
// in 0xA1-0xDA and 0xDF-0xFB (U+0E01-U+0E3A and U+0E3F-U+0E5B). Every other
// byte is unassigned. Windows-874 agrees on the Thai range but puts symbols
// such as € and … over the C1 controls, so those bytes map to U+0080-U+009F
// directly.
package thaitext

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnmappable is wrapped by every DecodeError.
var ErrUnmappable = errors.New("byte not mapped in TIS-620")

// DecodeError reports the first byte of the input without a TIS-620 mapping.
type DecodeError struct {
	Offset int
	Byte   byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tis-620: byte 0x%02X at offset %d has no mapping", e.Byte, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return ErrUnmappable
}

// fill is the padding character the card uses between and after words.
var fill = regexp.MustCompile(`#+`)

// Valid reports whether b is assigned in TIS-620.
func Valid(b byte) bool {
	return b < 0xA0 || (b >= 0xA1 && b <= 0xDA) || (b >= 0xDF && b <= 0xFB)
}

// Raw converts TIS-620 bytes to a UTF-8 string without any normalization.
func Raw(data []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(data))
	for i, b := range data {
		switch {
		case !Valid(b):
			return "", &DecodeError{Offset: i, Byte: b}
		case isControl(b):
			sb.WriteRune(rune(b))
		default:
			sb.WriteRune(charmap.Windows874.DecodeByte(b))
		}
	}
	return sb.String(), nil
}

func isControl(b byte) bool {
	return b >= 0x80 && b <= 0x9F
}

// Decode converts a card text field to UTF-8: every run of '#' becomes a
// single space and surrounding whitespace is trimmed.
func Decode(data []byte) (string, error) {
	s, err := Raw(data)
	if err != nil {
		return "", err
	}
	return Normalize(s), nil
}

// Normalize collapses '#' fill runs to one space and trims whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(fill.ReplaceAllString(s, " "))
}

// Encode converts UTF-8 text to TIS-620. Runes outside the character set
// fail with an error.
func Encode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r >= 0x80 && r <= 0x9F {
			out = append(out, byte(r))
			continue
		}
		b, ok := charmap.Windows874.EncodeRune(r)
		if !ok || !Valid(b) || isControl(b) {
			return nil, fmt.Errorf("tis-620: %q has no mapping", r)
		}
		out = append(out, b)
	}
	return out, nil
}
