// Package textutil decodes uploaded file bytes into normalized UTF-8 text.
package textutil

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Decode converts raw file bytes to text.
//
// A UTF-8 byte order mark is stripped; UTF-16 input with a byte order mark
// (either endianness) is transcoded. Anything else is read as UTF-8 with
// invalid sequences replaced by U+FFFD. The result is NFC-normalized and
// uses \n line endings.
func Decode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	var s string
	if err != nil {
		s = strings.ToValidUTF8(string(data), "\uFFFD")
	} else {
		s = string(out)
	}

	s = norm.NFC.String(s)
	return normalizeNewlines(s)
}

// normalizeNewlines converts \r\n and lone \r to \n.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
