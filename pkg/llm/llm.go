package llm

import "context"

// LLM is a single synchronous prompt-completion call with a bounded output
// length. Implementations authenticate via configuration supplied at
// construction, never by reading the environment themselves.
type LLM interface {
	Chat(ctx context.Context, prompt string) (string, error)
	Name() string
}
