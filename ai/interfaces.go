package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error from the taxonomy in errors.go if generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for a batch of texts.
	// The returned slice contains embeddings in the same order as the
	// input texts; its length always equals the input length on success.
	// Returns an error from the taxonomy in errors.go if the batch fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
