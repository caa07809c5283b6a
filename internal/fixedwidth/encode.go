// Package fixedwidth implements the four legacy field encodings used by the
// Taiwanese business-tax e-filing media formats: alphanumeric (X), double-byte
// text (C), unsigned numeric (9), and COBOL display-sign numeric (S9).
//
// Every encoder returns a string of exactly the requested length. Length for
// the C type is measured in Big5 bytes (ASCII = 1, CJK = 2), matching the
// COBOL-era byte-size conventions of the government formats.
package fixedwidth

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// FormatX encodes an alphanumeric field: left-aligned, space-padded on the
// right, truncated to the first n bytes when longer.
func FormatX(value string, n int) string {
	if len(value) > n {
		return value[:n]
	}
	return value + strings.Repeat(" ", n-len(value))
}

// Big5Width returns the byte length of s under the Big5 encoding. Runes with
// no Big5 mapping fall back to the double-byte convention: 1 unit for ASCII,
// 2 units for everything else.
func Big5Width(s string) int {
	out, _, err := transform.Bytes(traditionalchinese.Big5.NewEncoder(), []byte(s))
	if err == nil {
		return len(out)
	}
	w := 0
	for _, r := range s {
		if r < utf8.RuneSelf {
			w++
		} else {
			w += 2
		}
	}
	return w
}

// FormatC encodes a CJK-capable text field. Length n is measured in Big5
// units. Overlong values are trimmed one rune at a time, re-measuring after
// each trim, then the result is right-padded with ASCII spaces until the
// measured width equals n.
func FormatC(value string, n int) string {
	for Big5Width(value) > n {
		runes := []rune(value)
		value = string(runes[:len(runes)-1])
	}
	return value + strings.Repeat(" ", n-Big5Width(value))
}

// Format9 encodes an unsigned numeric field: the absolute value, right-aligned
// and zero-padded to n digits. When the decimal representation exceeds n
// digits only the least-significant n are kept.
func Format9(value int64, n int) string {
	if value < 0 {
		value = -value
	}
	s := strconv.FormatInt(value, 10)
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return strings.Repeat("0", n-len(s)) + s
}

// COBOL display-sign alphabets. The last digit of an S9 field is replaced by
// the character at its index: one alphabet for non-negative values, a
// disjoint one for negative values, so the final character carries both the
// digit and the sign.
const (
	signDigitsPositive = "{ABCDEFGHI"
	signDigitsNegative = "}JKLMNOPQR"
)

// FormatS9 encodes a COBOL display-sign numeric field: abs(value) zero-padded
// (or truncated) to n digits, with the last digit replaced by its sign-carrying
// character.
func FormatS9(value int64, n int) string {
	if n == 0 {
		return ""
	}
	digits := Format9(value, n)
	last := int(digits[n-1] - '0')
	alphabet := signDigitsPositive
	if value < 0 {
		alphabet = signDigitsNegative
	}
	return digits[:n-1] + string(alphabet[last])
}

// DecodeS9 decodes an S9-encoded field back into its numeric value.
func DecodeS9(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty S9 field")
	}
	last := s[len(s)-1]
	digit := -1
	negative := false
	if i := strings.IndexByte(signDigitsPositive, last); i >= 0 {
		digit = i
	} else if i := strings.IndexByte(signDigitsNegative, last); i >= 0 {
		digit = i
		negative = true
	}
	if digit < 0 {
		return 0, fmt.Errorf("invalid S9 sign character %q", last)
	}
	head := s[:len(s)-1]
	for _, c := range head {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid S9 digit %q", c)
		}
	}
	v, err := strconv.ParseInt(head+strconv.Itoa(digit), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse S9 field %q: %w", s, err)
	}
	if negative {
		v = -v
	}
	return v, nil
}
