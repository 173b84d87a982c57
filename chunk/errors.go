package chunk

import "errors"

var (
	// ErrUnterminatedFence indicates a fenced code block with no closing marker.
	ErrUnterminatedFence = errors.New("unterminated code fence")

	// ErrTokenCounterRequired is returned when a token counter is not provided.
	ErrTokenCounterRequired = errors.New("token counter required")

	// ErrInvalidChunkSizes is returned when the configured chunk sizes are inconsistent.
	ErrInvalidChunkSizes = errors.New("invalid chunk size configuration")
)
