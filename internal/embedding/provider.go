// Package embedding defines the embedding-provider contract (§1, §5, §6)
// and two concrete HTTP-backed implementations, in the same opaque
// external-collaborator idiom the teacher uses for Ollama chat/embedding
// calls: a base URL, a JSON request/response shape, and an http.Client
// with a timeout.
package embedding

import "context"

// Provider maps text to unit-norm vectors of a fixed declared dimension.
// embed_batch calls must return vectors in the same order as the input
// texts.
type Provider interface {
	// Dimension returns the fixed vector length this provider produces.
	Dimension() int
	// Embed embeds a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds a batch of texts in order. A provider may declare
	// a maximum total token budget per batch via MaxBatchTokens; the
	// caller's batcher is responsible for respecting it.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// MaxBatchTokens returns a conservative per-batch token budget, or 0
	// if the provider has no such limit.
	MaxBatchTokens() int
	// MaxBatchCount returns the maximum number of texts per batch call,
	// or 0 if unbounded.
	MaxBatchCount() int
}
