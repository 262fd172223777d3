package llm

import (
	_ "embed"
	"strings"
)

// PromptVersion identifies the career-review prompt template in use.
const PromptVersion = "career_v1"

const resumePlaceholder = "{{RESUME_TEXT}}"

//go:embed prompts/career_v1.txt
var careerPromptV1 string

// BuildPrompt embeds the normalized resume text into the review prompt.
func BuildPrompt(resumeText string) string {
	return strings.Replace(careerPromptV1, resumePlaceholder, resumeText, 1)
}
