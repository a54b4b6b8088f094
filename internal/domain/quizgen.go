package domain

import (
	"context"
	"errors"
)

// Sentinel errors for the completion and parsing stages.
var (
	// ErrCompletionAuth signals rejected provider credentials.
	ErrCompletionAuth = errors.New("completion provider rejected credentials")
	// ErrRateLimited signals provider backpressure. Retrying is the caller's
	// responsibility; nothing in this module retries automatically.
	ErrRateLimited = errors.New("completion provider rate limited")
	// ErrCompletionTimeout signals that the provider did not answer in time.
	ErrCompletionTimeout = errors.New("completion request timed out")
	// ErrProviderError signals a 5xx or malformed provider response.
	ErrProviderError = errors.New("completion provider error")
	// ErrMalformedQuizResponse signals that the model output did not match
	// the requested quiz shape even after the tolerant parse.
	ErrMalformedQuizResponse = errors.New("malformed quiz response from model")
)

// CompletionClient sends a rendered instruction to an OpenAI-compatible
// endpoint and returns the raw completion text verbatim.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeneratedQuiz is the validated result of parsing a model completion,
// before ownership and IDs are attached.
type GeneratedQuiz struct {
	Title       string
	Description string
	Questions   []GeneratedQuestion
}

// GeneratedQuestion mirrors Question without persistence concerns.
type GeneratedQuestion struct {
	Text         string
	Options      []string
	CorrectIndex int
}
