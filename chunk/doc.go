// Package chunk implements the chunking engine for markdown documentation.
//
// A document is processed in three stages:
//   - SplitSections divides the text into header-delimited sections,
//     tracking the heading hierarchy and fenced code blocks.
//   - Chunker.ChunkDocument turns sections into size-bounded chunks with
//     controlled overlap, keeping code blocks atomic and merging
//     undersized chunks into their neighbors.
//   - Enricher attaches content-type classification, code-presence and
//     source metadata to each chunk.
//
// All sizing decisions go through a TokenCounter. The production counter
// uses tiktoken's cl100k_base encoding; tests use the cheaper
// approximate counter for determinism and speed.
package chunk
