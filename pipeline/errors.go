package pipeline

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrChunkRepositoryRequired is returned when no chunk repository is provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrProgressRepositoryRequired is returned when no progress repository is provided.
	ErrProgressRepositoryRequired = errors.New("progress repository is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidConfig is returned when configuration values are out of range.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")

	// ErrStateCorrupt is returned when persisted progress state cannot be
	// read and strict state handling is enabled.
	ErrStateCorrupt = errors.New("persisted progress state is corrupt")

	// ErrFatalAbort is returned when consecutive files fail with a fatal
	// embedding error. Credentials and request shape are not per-file, so
	// continuing would fail every remaining file the same way.
	ErrFatalAbort = errors.New("aborting run after consecutive fatal embedding failures")

	// ErrUnknownPath is returned when a progress transition is requested
	// for a path the run state has never seen.
	ErrUnknownPath = errors.New("unknown path in run state")
)
