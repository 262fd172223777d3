package analyses

import (
	"strings"
	"testing"
)

const completeResume = `Jane Doe
jane@example.com | 555-123-4567
Austin, TX

Summary: Motivated graduate focused on reliable backend services.
Experience
Software Engineer
Acme Corp | 2021 - Present
Developed an API that increased throughput by 25%

Education: B.S. Computer Science
Skills: Go, Python, SQL`

// minimalResume is exactly 500 characters with no resume conventions.
func minimalResume(t *testing.T) string {
	t.Helper()
	text := strings.Repeat("lorem ipsum dolor sit amet ", 20)[:500]
	if len(text) != 500 || strings.TrimSpace(text) != text {
		t.Fatalf("bad fixture: len=%d", len(text))
	}
	return text
}

func mustNormalize(t *testing.T, raw string) ResumeText {
	t.Helper()
	text, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return text
}
