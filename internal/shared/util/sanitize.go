package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultFileName is reported when no usable name was supplied.
const DefaultFileName = "resume"

const maxFileNameLength = 255

// SanitizeFileName reduces a client-supplied name to a bare file name with
// no directory parts or control characters.
func SanitizeFileName(name string) string {
	s := strings.TrimSpace(name)
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." {
		return DefaultFileName
	}
	if utf8.RuneCountInString(s) > maxFileNameLength {
		s = string([]rune(s)[:maxFileNameLength])
	}
	return s
}
