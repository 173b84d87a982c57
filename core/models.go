package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored chunks.
// It is derived deterministically from chunk identity so that repeated
// writes of the same chunk replace rather than duplicate.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the storage ID for a chunk from its source path and index.
// This is the idempotent upsert key: reprocessing a file overwrites its
// previous chunks instead of duplicating them.
func ChunkID(sourcePath string, chunkIndex int) ID {
	return IDFromContent(sourcePath + "#" + strconv.Itoa(chunkIndex))
}

// ContentType classifies what kind of documentation a chunk came from.
type ContentType string

const (
	ContentTypeReference ContentType = "reference"
	ContentTypeTutorial  ContentType = "tutorial"
	ContentTypeAPI       ContentType = "api"
	ContentTypeExample   ContentType = "example"
	ContentTypeUnknown   ContentType = "unknown"
)

// Document is one discovered source file. It is read-only after discovery.
type Document struct {
	Path         string // Path relative to the source root; unique key
	Text         string
	DiscoveredAt time.Time
}

// CodeBlock is a fenced code block found inside a section.
type CodeBlock struct {
	Language string // Language tag from the opening fence, may be empty
	Text     string // Block content including the fence markers
}

// Section is a header-delimited structural span of a document.
// Sections partition the document text in order with no gaps or overlaps.
type Section struct {
	HeadingPath []string // Heading strings from document root to this section
	Text        string
	CodeBlocks  []CodeBlock
	Index       int // Order index within the document
}

// Chunk is the unit stored in the vector database.
// Vector is populated by the embedding stage; everything else is set
// by the chunking and enrichment stages.
type Chunk struct {
	Text          string      `json:"text"`
	TokenCount    int         `json:"token_count"`
	HeadingPath   []string    `json:"heading_path,omitempty"`
	ContentType   ContentType `json:"content_type"`
	HasCode       bool        `json:"has_code"`
	ChunkIndex    int         `json:"chunk_index"` // 0-based, contiguous within a source file
	SourcePath    string      `json:"source_path"`
	SourceVersion string      `json:"source_version,omitempty"`
	Title         string      `json:"title,omitempty"`
	DocURL        string      `json:"doc_url,omitempty"`
	Vector        []float32   `json:"vector,omitempty"`
	InsertedAt    time.Time   `json:"inserted_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ID returns the chunk's deterministic storage ID.
func (c *Chunk) ID() ID {
	return ChunkID(c.SourcePath, c.ChunkIndex)
}

// FileStatus is the processing state of one source file.
//
// Valid transitions: pending -> in_progress -> {completed | failed}.
// A failed record returns to pending at the start of the next run.
type FileStatus string

const (
	StatusPending    FileStatus = "pending"
	StatusInProgress FileStatus = "in_progress"
	StatusCompleted  FileStatus = "completed"
	StatusFailed     FileStatus = "failed"
)

// ProgressRecord is the durable per-file processing state.
// Records are owned by the progress store and mutated only by the
// pipeline orchestrator.
type ProgressRecord struct {
	Path         string     `json:"path"`
	Status       FileStatus `json:"status"`
	ChunkCount   int        `json:"chunk_count,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	LastUpdated  time.Time  `json:"last_updated"`
}

// FileError is one entry in the machine-readable error report.
type FileError struct {
	Path         string    `json:"path"`
	ErrorMessage string    `json:"error_message"`
	Timestamp    time.Time `json:"timestamp"`
}

// SearchMatch is a chunk returned from vector similarity search.
type SearchMatch struct {
	Chunk *Chunk
	Score float32
}
