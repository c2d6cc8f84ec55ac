package strutil

import (
	"strings"
	"unsafe"
)

// Check if the string is blank
func IsBlankStr(s string) bool {
	return s == "" || strings.TrimSpace(s) == ""
}

func Spaces(count int) string {
	if count < 1 {
		return ""
	}
	return strings.Repeat(" ", count)
}

// Pad spaces to the right until s is n bytes long.
func PadRight(s string, n int) string {
	return s + Spaces(n-len(s))
}

func QuoteStr(s string) string {
	return "\"" + s + "\""
}

func UnquoteStr(s string) string {
	if len(s) < 2 {
		return s
	}
	c := s[0]
	if (c == '"' || c == '\'') && s[len(s)-1] == c {
		return s[1 : len(s)-1]
	}
	return s
}

// Convert []byte to string without alloc.
//
// Both the []byte and the string share the same memory, any modification on the []byte is reflected on the string.
//
// See: https://github.com/golang/go/issues/53003
func UnsafeByt2Str(b []byte) string {
	if len(b) < 1 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Convert string to []byte without alloc.
//
// The resulting []byte is not modifiable, program will panic if modified.
func UnsafeStr2Byt(s string) (b []byte) {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
