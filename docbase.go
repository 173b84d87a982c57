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

// Package docbase turns a tree of markdown documentation into a
// searchable vector knowledge base with crash-safe, resumable
// ingestion.
package docbase

import (
	"log/slog"

	"github.com/quarterlane/docbase/ai"
	"github.com/quarterlane/docbase/ai/openai"
	"github.com/quarterlane/docbase/chunk"
	"github.com/quarterlane/docbase/pipeline"
	"github.com/quarterlane/docbase/search"
	"github.com/quarterlane/docbase/storage"
	"github.com/quarterlane/docbase/storage/badger"
)

// KnowledgeBase wires the storage backend, repositories and embedder
// together and hands out pipelines and searchers over them.
type KnowledgeBase struct {
	backend      *badger.Backend
	chunkRepo    storage.ChunkRepository
	progressRepo storage.ProgressRepository
	embedder     ai.Embedder
	counter      chunk.TokenCounter
	logger       *slog.Logger
}

// KnowledgeBaseOption configures a KnowledgeBase.
type KnowledgeBaseOption func(*knowledgeBaseOptions)

type knowledgeBaseOptions struct {
	aiConfig *ai.Config
	counter  chunk.TokenCounter
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithTokenCounter sets the token counter used for chunk sizing.
// Default is the cl100k_base tiktoken counter.
func WithTokenCounter(counter chunk.TokenCounter) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		if counter != nil {
			o.counter = counter
		}
	}
}

// Open opens the knowledge base at the given storage path.
func Open(filePath string, opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	options := &knowledgeBaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.counter == nil {
		counter, err := chunk.NewTiktokenCounter()
		if err != nil {
			return nil, err
		}
		options.counter = counter
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	progressRepo, err := badger.NewProgressRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		progressRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return &KnowledgeBase{
		backend:      backend,
		chunkRepo:    chunkRepo,
		progressRepo: progressRepo,
		embedder:     embedder,
		counter:      options.counter,
		logger:       slog.Default(),
	}, nil
}

// Close closes repositories and the storage backend.
func (kb *KnowledgeBase) Close() error {
	if err := kb.progressRepo.Close(); err != nil {
		kb.logger.Error("error closing progress repository", "err", err)
		return err
	}
	if err := kb.chunkRepo.Close(); err != nil {
		kb.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := kb.backend.Close(); err != nil {
		kb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ChunkRepository exposes the vector store.
func (kb *KnowledgeBase) ChunkRepository() storage.ChunkRepository {
	return kb.chunkRepo
}

// ProgressRepository exposes the durable progress state.
func (kb *KnowledgeBase) ProgressRepository() storage.ProgressRepository {
	return kb.progressRepo
}

// NewPipeline builds an ingestion pipeline over this knowledge base.
func (kb *KnowledgeBase) NewPipeline(config *pipeline.Config, opts ...pipeline.OrchestratorOption) (*pipeline.Orchestrator, error) {
	return pipeline.NewOrchestrator(kb.counter, kb.embedder, kb.chunkRepo, kb.progressRepo, config, opts...)
}

// NewSearcher builds a query-time searcher over this knowledge base.
func (kb *KnowledgeBase) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(kb.chunkRepo, kb.embedder, opts...)
}
