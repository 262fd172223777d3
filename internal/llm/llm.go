package llm

import "context"

// Narrator produces free-text career feedback for a prompt.
type Narrator interface {
	GenerateNarrative(ctx context.Context, prompt string) (string, error)
}
