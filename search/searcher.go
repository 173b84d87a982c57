package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/quarterlane/docbase/ai"
	"github.com/quarterlane/docbase/core"
	"github.com/quarterlane/docbase/storage"
)

const (
	// DefaultLimit is the maximum number of results when none is requested.
	DefaultLimit = 5

	// DefaultMinScore is the similarity floor when none is requested.
	DefaultMinScore = 0.3

	// verbatimBoost is added to a match's score when every query word
	// appears verbatim in the chunk text.
	verbatimBoost = 0.1
)

// Query is one search request.
type Query struct {
	// Text is the natural-language query.
	Text string

	// Version restricts results to chunks with this source version.
	// Empty matches all versions.
	Version string

	// ContentType restricts results to one classification. Empty
	// matches all.
	ContentType core.ContentType

	// Limit caps the number of results. Zero means DefaultLimit.
	Limit int

	// MinScore is the minimum similarity score. Zero means
	// DefaultMinScore.
	MinScore float32
}

// Searcher answers similarity queries over the chunk store.
type Searcher struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	logger          *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(chunkRepository storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		chunkRepository: chunkRepository,
		embedder:        embedder,
		logger:          slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search embeds the query, finds similar chunks honoring the query's
// filters, and re-ranks with a verbatim keyword boost. Results come
// back ordered by score descending.
func (s *Searcher) Search(ctx context.Context, query Query) ([]*core.SearchMatch, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, ErrEmptyQuery
	}
	if query.Limit <= 0 {
		query.Limit = DefaultLimit
	}
	if query.MinScore <= 0 {
		query.MinScore = DefaultMinScore
	}

	embedding, err := s.embedder.EmbedText(ctx, query.Text)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query.Text, "err", err)
		return nil, err
	}

	filter := storage.SearchFilter{
		Version:     query.Version,
		ContentType: query.ContentType,
	}
	matches, err := s.chunkRepository.FindSimilar(ctx, embedding, filter, query.MinScore, query.Limit)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}

	// Verbatim match boost, then re-sort: the boost can reorder
	// near-equal similarity scores.
	boosted := false
	for _, match := range matches {
		if containsAllQueryWords(match.Chunk.Text, query.Text) {
			match.Score += verbatimBoost
			boosted = true
		}
	}
	if boosted {
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].Score > matches[j].Score
		})
	}

	s.logger.Debug("search complete", "query", query.Text, "hits", len(matches))
	return matches, nil
}
