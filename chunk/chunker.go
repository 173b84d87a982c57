// Copyright 2026 Quarterlane Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chunk

import (
	"log/slog"
	"strings"

	"github.com/quarterlane/docbase/core"
)

const (
	// DefaultTargetTokens is the target chunk size in tokens.
	DefaultTargetTokens = 900

	// DefaultOverlapTokens is the token span shared between adjacent
	// chunks split from the same oversized section.
	DefaultOverlapTokens = 175

	// DefaultMinChunkTokens is the minimum chunk size; smaller chunks
	// are merged into a neighbor.
	DefaultMinChunkTokens = 100
)

// Chunker turns documents into size-bounded, overlapping chunks.
type Chunker struct {
	counter       TokenCounter
	targetTokens  int
	overlapTokens int
	minTokens     int
	logger        *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithTargetTokens sets the target chunk size in tokens.
func WithTargetTokens(n int) Option {
	return func(c *Chunker) error {
		if n <= 0 {
			return ErrInvalidChunkSizes
		}
		c.targetTokens = n
		return nil
	}
}

// WithOverlapTokens sets the overlap carried between adjacent split chunks.
func WithOverlapTokens(n int) Option {
	return func(c *Chunker) error {
		if n < 0 {
			return ErrInvalidChunkSizes
		}
		c.overlapTokens = n
		return nil
	}
}

// WithMinChunkTokens sets the minimum chunk size before merging.
func WithMinChunkTokens(n int) Option {
	return func(c *Chunker) error {
		if n < 0 {
			return ErrInvalidChunkSizes
		}
		c.minTokens = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewChunker creates a chunker using the given token counter.
func NewChunker(counter TokenCounter, opts ...Option) (*Chunker, error) {
	if counter == nil {
		return nil, ErrTokenCounterRequired
	}

	c := &Chunker{
		counter:       counter,
		targetTokens:  DefaultTargetTokens,
		overlapTokens: DefaultOverlapTokens,
		minTokens:     DefaultMinChunkTokens,
		logger:        slog.Default().With("component", "chunker"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.overlapTokens >= c.targetTokens {
		return nil, ErrInvalidChunkSizes
	}

	return c, nil
}

// ChunkDocument splits a document into chunks with contiguous 0-based
// indexes. An empty or whitespace-only document yields no chunks.
//
// Sections at or below the target size become exactly one chunk.
// Oversized sections are split with overlap, keeping fenced code blocks
// atomic. After splitting, any chunk below the minimum size is merged
// forward into the next chunk, or backward if it is the document's last
// chunk. A single-chunk document is exempt from the minimum.
func (c *Chunker) ChunkDocument(doc *core.Document) ([]*core.Chunk, error) {
	if strings.TrimSpace(doc.Text) == "" {
		c.logger.Warn("empty document", "path", doc.Path)
		return nil, nil
	}

	sections, err := SplitSections(doc.Text)
	if err != nil {
		return nil, err
	}

	var chunks []*core.Chunk
	for _, section := range sections {
		if strings.TrimSpace(section.Text) == "" {
			continue
		}
		for _, piece := range c.splitSection(section) {
			text := strings.TrimSpace(piece)
			if text == "" {
				continue
			}
			chunks = append(chunks, &core.Chunk{
				Text:        text,
				TokenCount:  c.counter.Count(text),
				HeadingPath: section.HeadingPath,
				SourcePath:  doc.Path,
			})
		}
	}

	chunks = c.mergeUndersized(chunks)

	for i, chunk := range chunks {
		chunk.ChunkIndex = i
	}

	c.logger.Debug("chunked document", "path", doc.Path, "sections", len(sections), "chunks", len(chunks))
	return chunks, nil
}

// mergeUndersized merges chunks below the minimum size into a neighbor:
// forward into the next chunk, or backward when the undersized chunk is
// the last one in the document. Merging never re-triggers a split, so a
// merged chunk may end up above the target size. A single-chunk document
// is left alone.
func (c *Chunker) mergeUndersized(chunks []*core.Chunk) []*core.Chunk {
	if len(chunks) <= 1 {
		return chunks
	}

	merged := make([]*core.Chunk, 0, len(chunks))
	for i := 0; i < len(chunks); i++ {
		cur := chunks[i]
		if cur.TokenCount >= c.minTokens {
			merged = append(merged, cur)
			continue
		}

		if i < len(chunks)-1 {
			// Forward merge: prepend into the next chunk. The merged
			// chunk opens with the earlier text, so it keeps the
			// earlier heading path too.
			next := chunks[i+1]
			next.Text = cur.Text + "\n\n" + next.Text
			next.TokenCount = c.counter.Count(next.Text)
			next.HeadingPath = cur.HeadingPath
			continue
		}

		if len(merged) > 0 {
			// Trailing chunk: merge backward into the previous one.
			prev := merged[len(merged)-1]
			prev.Text = prev.Text + "\n\n" + cur.Text
			prev.TokenCount = c.counter.Count(prev.Text)
			continue
		}

		merged = append(merged, cur)
	}

	return merged
}
