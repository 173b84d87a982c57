package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/quarterlane/docbase/ai"
	"github.com/quarterlane/docbase/core"
)

// BatchProcessor generates embeddings for a file's chunks in batches.
// Batches are issued sequentially; a fixed delay between successful
// calls keeps steady-state request rates under provider limits.
type BatchProcessor struct {
	embedder       ai.Embedder
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	batchDelay     time.Duration
}

// NewBatchProcessor creates a new batch processor.
// batchSize: number of chunk texts per embedding call
// maxRetries: maximum number of attempts for each call
// retryBaseDelay: base delay for exponential backoff
// batchDelay: pause inserted between consecutive successful calls
func NewBatchProcessor(embedder ai.Embedder, batchSize, maxRetries int, retryBaseDelay, batchDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		embedder:       embedder,
		batchSize:      batchSize,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		batchDelay:     batchDelay,
	}
}

// EmbedChunks populates the Vector of every chunk, batch by batch.
// Vectors are normalized so cosine similarity reduces to a dot product.
// Any batch failing after retry exhaustion fails the whole call; the
// caller treats that as a file-level failure.
func (bp *BatchProcessor) EmbedChunks(ctx context.Context, chunks []*core.Chunk) error {
	for start := 0; start < len(chunks); start += bp.batchSize {
		end := start + bp.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		var embeddings [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var err error
			embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
			return err
		}, bp.maxRetries, bp.retryBaseDelay)

		if err != nil {
			return fmt.Errorf("embedding batch %d-%d failed: %w", start, end-1, err)
		}

		if len(embeddings) != len(batch) {
			return fmt.Errorf("%w: embedding count mismatch: expected %d, got %d",
				ai.ErrFatal, len(batch), len(embeddings))
		}

		for i := range batch {
			batch[i].Vector = NormalizeVector(embeddings[i])
		}

		// Pace between successful calls, except after the last batch
		if end < len(chunks) && bp.batchDelay > 0 {
			timer := time.NewTimer(bp.batchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil
}
