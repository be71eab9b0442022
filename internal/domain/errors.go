// Package domain holds cross-cutting domain types and sentinel errors.
package domain

import "errors"

var (
	// ErrMissingOrigin signals a criteria search without the mandatory origin.
	ErrMissingOrigin = errors.New("current location is required")
	// ErrInvalidArguments signals tool arguments that fail boundary validation.
	ErrInvalidArguments = errors.New("invalid tool arguments")
	// ErrUnknownTool signals a dispatch for a tool that was never registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// EmbeddingResult is a query vector plus provider token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
