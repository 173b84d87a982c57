package storage

import (
	"context"

	"github.com/quarterlane/docbase/core"
)

// SearchFilter narrows vector similarity search by chunk metadata.
// Zero-valued fields match everything.
type SearchFilter struct {
	// Version matches chunks whose SourceVersion equals this value.
	Version string

	// ContentType matches chunks of this classification.
	ContentType core.ContentType
}

// ChunkRepository is the vector store: it persists chunks with their
// embeddings and serves similarity search over them.
type ChunkRepository interface {
	// UpsertChunks writes chunks keyed by ChunkID(source path, chunk index).
	// Re-writing an existing key replaces the stored chunk (idempotent).
	// Sets InsertedAt on first write and UpdatedAt always.
	UpsertChunks(ctx context.Context, chunks ...*core.Chunk) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunksBySource retrieves all chunks of one source file, ordered
	// by chunk index. Returns an empty slice when none exist.
	GetChunksBySource(ctx context.Context, sourcePath string) ([]*core.Chunk, error)

	// DeleteChunksBySource removes every chunk of one source file.
	// Removing a path with no chunks is not an error.
	DeleteChunksBySource(ctx context.Context, sourcePath string) error

	// FindSimilar finds chunks similar to the given vector.
	// Returns chunks with similarity >= minScore that match the filter,
	// up to limit results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, filter SearchFilter, minScore float32, limit int) ([]*core.SearchMatch, error)

	// Close closes the repository and releases resources.
	Close() error
}

// ProgressRepository is the durable per-file processing state.
// The pipeline loads it at run start and rewrites it wholesale at each
// checkpoint.
type ProgressRepository interface {
	// SaveRecords persists progress records, replacing any existing
	// record for the same path. A checkpoint passes the full state.
	SaveRecords(ctx context.Context, records ...*core.ProgressRecord) error

	// LoadRecords retrieves all persisted progress records keyed by path.
	// An unreadable record fails the load with ErrSerializationFailed;
	// the caller chooses whether that is fatal or treated as no prior state.
	LoadRecords(ctx context.Context) (map[string]*core.ProgressRecord, error)

	// DeleteRecords removes the records for the given paths. Deleting a
	// path with no record is not an error.
	DeleteRecords(ctx context.Context, paths ...string) error

	// Reset discards all persisted progress records.
	Reset(ctx context.Context) error

	// Close closes the repository and releases resources.
	Close() error
}
