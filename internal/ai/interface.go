package ai

import (
	"context"
	"errors"
)

// ErrUpstream marks failures of the hosted model call: transport, auth,
// rate limiting or a malformed API response.
var ErrUpstream = errors.New("upstream model call failed")

// LLMProvider defines the contract for interacting with AI models.
// Implementations send one prompt to one configured model and return its raw text.
type LLMProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder maps text to a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// UpstreamError keeps the provider's message intact while letting callers
// match ErrUpstream.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string { return e.Provider + ": " + e.Err.Error() }

func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstream, e.Err} }

func upstream(provider string, err error) error {
	return &UpstreamError{Provider: provider, Err: err}
}
