package analyses

import (
	"strings"
	"unicode/utf8"

	"resume-reviewer/internal/extract"
)

// MinResumeLength is the shortest trimmed text accepted for analysis.
const MinResumeLength = 50

// Normalize trims extracted text and rejects text too short to analyze.
// Length is counted in characters, not bytes.
func Normalize(raw string) (ResumeText, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &extract.Error{Kind: extract.EmptyContent}
	}
	if utf8.RuneCountInString(trimmed) < MinResumeLength {
		return "", &extract.Error{Kind: extract.ContentTooShort}
	}
	return ResumeText(trimmed), nil
}
