package qs

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// PercentEncode escapes every byte outside the RFC 3986 unreserved set
// (ALPHA / DIGIT / "-" / "." / "_" / "~").
func PercentEncode(raw string, _ Token, _ string) string {
	n := 0
	for i := 0; i < len(raw); i++ {
		if !unreserved(raw[i]) {
			n++
		}
	}
	if n == 0 {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw) + 2*n)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// PercentDecode treats '+' as a space and reverses percent escapes. Text
// with malformed escapes, or escapes that do not form valid UTF-8, is
// returned with only the '+' substitution applied.
func PercentDecode(raw string, _ Token, _ string) string {
	spaced := strings.ReplaceAll(raw, "+", " ")
	if !strings.Contains(spaced, "%") {
		return spaced
	}
	decoded, err := url.PathUnescape(spaced)
	if err != nil || !utf8.ValidString(decoded) {
		return spaced
	}
	return decoded
}

// Verbatim returns tokens unchanged. Use it as an encoder when values were
// escaped upstream, or as a decoder to keep escapes for a later pass.
func Verbatim(raw string, _ Token, _ string) string {
	return raw
}

// TrimPrefix removes one leading '#' or '?' from a fragment or search string.
func TrimPrefix(s string) string {
	if s != "" && (s[0] == '#' || s[0] == '?') {
		return s[1:]
	}
	return s
}

// Less orders keys on the wire.
func Less(a, b string) bool {
	return a < b
}

// Compare returns -1 when a sorts before b and 1 otherwise. It never
// returns 0; keys of a map are distinct so that case does not arise.
func Compare(a, b string) int {
	if Less(a, b) {
		return -1
	}
	return 1
}

// FormatNumber renders f the way JavaScript's String(number) does:
// shortest round-trip digits, exponent form outside [1e-6, 1e21), and
// NaN / Infinity spelled out.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
