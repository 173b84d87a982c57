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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/quarterlane/docbase/ai"
	"github.com/quarterlane/docbase/chunk"
	"github.com/quarterlane/docbase/core"
	"github.com/quarterlane/docbase/storage"
)

// Orchestrator drives documents through discovery, chunking,
// enrichment, embedding and storage, one file at a time. Only one
// file's text and chunks are in memory at any moment.
type Orchestrator struct {
	chunker      *chunk.Chunker
	enricher     *chunk.Enricher
	batches      *BatchProcessor
	chunkRepo    storage.ChunkRepository
	progressRepo storage.ProgressRepository
	config       *Config
	progress     io.Writer
	logger       *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithProgressWriter sets where human-readable progress output goes.
// Default is os.Stderr.
func WithProgressWriter(w io.Writer) OrchestratorOption {
	return func(o *Orchestrator) error {
		if w == nil {
			w = io.Discard
		}
		o.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a pipeline orchestrator.
func NewOrchestrator(
	counter chunk.TokenCounter,
	embedder ai.Embedder,
	chunkRepo storage.ChunkRepository,
	progressRepo storage.ProgressRepository,
	config *Config,
	opts ...OrchestratorOption,
) (*Orchestrator, error) {
	if chunkRepo == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if progressRepo == nil {
		return nil, ErrProgressRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	chunker, err := chunk.NewChunker(counter,
		chunk.WithTargetTokens(config.TargetTokens),
		chunk.WithOverlapTokens(config.OverlapTokens),
		chunk.WithMinChunkTokens(config.MinChunkTokens),
	)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		chunker:      chunker,
		enricher:     chunk.NewEnricher(config.VersionTag),
		batches:      NewBatchProcessor(embedder, config.BatchSize, config.MaxRetries, config.BaseDelay, config.BatchDelay),
		chunkRepo:    chunkRepo,
		progressRepo: progressRepo,
		config:       config,
		progress:     os.Stderr,
		logger:       slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Run executes one pipeline pass over the source tree. Per-file errors
// are isolated: a failing file is marked failed and processing moves to
// the next one. Run returns a non-nil Summary alongside any run-level
// error so partial progress is always visible.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	paths, err := DiscoverDocuments(o.config.SourceRoot, o.config.Extension)
	if err != nil {
		return nil, fmt.Errorf("document discovery failed: %w", err)
	}
	o.logger.Info("discovered documents", "count", len(paths), "root", o.config.SourceRoot)

	state, err := o.loadState(ctx, paths)
	if err != nil {
		return nil, err
	}

	tracker := NewProgressTracker(o.progress, len(paths), 1)
	tracker.Start()

	var (
		sinceCheckpoint  int
		consecutiveFatal int
		totalChunks      int
		runErr           error
	)

	for _, path := range paths {
		if ctx.Err() != nil {
			runErr = ctx.Err()
			break
		}

		if state.IsCompleted(path) {
			state.MarkSkipped(path)
			tracker.Increment(1)
			o.logger.Debug("skipping completed file", "path", path)
			continue
		}

		if err := state.MarkInProgress(path); err != nil {
			return o.summarize(state, totalChunks), err
		}

		chunkCount, fileErr := o.processFile(ctx, path)
		if fileErr != nil {
			if errors.Is(fileErr, context.Canceled) || errors.Is(fileErr, context.DeadlineExceeded) {
				// The interrupt is not the file's fault; leave it
				// in_progress so the next run retries it.
				runErr = fileErr
				break
			}

			o.logger.Error("file failed", "path", path, "error", fileErr)
			if err := state.MarkFailed(path, fileErr); err != nil {
				return o.summarize(state, totalChunks), err
			}

			if errors.Is(fileErr, ai.ErrFatal) {
				consecutiveFatal++
				if consecutiveFatal >= maxConsecutiveFatal {
					runErr = fmt.Errorf("%w: %d files", ErrFatalAbort, consecutiveFatal)
					break
				}
			} else {
				consecutiveFatal = 0
			}
		} else {
			if err := state.MarkCompleted(path, chunkCount); err != nil {
				return o.summarize(state, totalChunks), err
			}
			totalChunks += chunkCount
			consecutiveFatal = 0
		}

		tracker.Increment(1)
		sinceCheckpoint++
		if sinceCheckpoint >= o.config.CheckpointInterval {
			if err := o.checkpoint(ctx, state); err != nil {
				return o.summarize(state, totalChunks), err
			}
			sinceCheckpoint = 0
		}
	}

	tracker.Finish()

	// Final checkpoint, also on interrupted exit
	if err := o.checkpoint(ctx, state); err != nil && runErr == nil {
		runErr = err
	}

	summary := o.summarize(state, totalChunks)

	if len(summary.FailedFiles) > 0 && o.config.ErrorReportPath != "" {
		if err := WriteErrorReport(o.config.ErrorReportPath, summary.FailedFiles); err != nil {
			o.logger.Error("failed to write error report", "path", o.config.ErrorReportPath, "error", err)
		} else {
			o.logger.Info("wrote error report", "path", o.config.ErrorReportPath, "failures", len(summary.FailedFiles))
		}
	}

	o.logger.Info("run finished",
		"outcome", summary.Outcome(),
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"chunks", summary.TotalChunks,
		"elapsed", tracker.Elapsed().Round(10*time.Millisecond))

	return summary, runErr
}

// loadState loads persisted progress and builds the run state. A reset
// discards prior state. Unreadable state is a warning plus a fresh
// start, unless strict state handling makes it process-fatal.
func (o *Orchestrator) loadState(ctx context.Context, paths []string) (*RunState, error) {
	if o.config.Reset {
		if err := o.progressRepo.Reset(ctx); err != nil {
			return nil, fmt.Errorf("failed to reset progress state: %w", err)
		}
		o.logger.Info("reset requested, discarded prior progress state")
		return NewRunState(nil, paths), nil
	}

	prior, err := o.progressRepo.LoadRecords(ctx)
	if err != nil {
		if o.config.StrictState {
			return nil, fmt.Errorf("%w: %v", ErrStateCorrupt, err)
		}
		o.logger.Warn("progress state unreadable, starting fresh", "error", err)
		prior = nil
	}

	completed := 0
	for _, record := range prior {
		if record.Status == core.StatusCompleted {
			completed++
		}
	}
	if len(prior) > 0 {
		o.logger.Info("loaded prior progress state", "records", len(prior), "completed", completed)
	}

	if err := o.pruneVanished(ctx, prior, paths); err != nil {
		return nil, err
	}

	return NewRunState(prior, paths), nil
}

// pruneVanished drops progress records and stored chunks for files that
// no longer exist under the source root, so state and store track the
// current tree instead of accumulating deleted files forever.
func (o *Orchestrator) pruneVanished(ctx context.Context, prior map[string]*core.ProgressRecord, paths []string) error {
	discovered := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		discovered[path] = struct{}{}
	}

	var vanished []string
	for path := range prior {
		if _, ok := discovered[path]; !ok {
			vanished = append(vanished, path)
		}
	}
	if len(vanished) == 0 {
		return nil
	}

	for _, path := range vanished {
		if err := o.chunkRepo.DeleteChunksBySource(ctx, path); err != nil {
			return fmt.Errorf("failed to prune chunks of removed file %s: %w", path, err)
		}
		delete(prior, path)
	}
	if err := o.progressRepo.DeleteRecords(ctx, vanished...); err != nil {
		return fmt.Errorf("failed to prune progress records: %w", err)
	}

	o.logger.Info("pruned state for removed files", "count", len(vanished))
	return nil
}

// processFile runs one document through chunk, enrich, embed and store.
// Returns the chunk count on success. A file's chunks are either all
// stored or the file fails; there is no partial end state.
func (o *Orchestrator) processFile(ctx context.Context, path string) (int, error) {
	doc, err := ReadDocument(o.config.SourceRoot, path)
	if err != nil {
		return 0, fmt.Errorf("failed to read document: %w", err)
	}

	chunks, err := o.chunker.ChunkDocument(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to chunk document: %w", err)
	}
	if len(chunks) == 0 {
		o.logger.Warn("document produced no chunks", "path", path)
		return 0, nil
	}

	chunks = o.enricher.Enrich(chunks, doc)

	if err := o.batches.EmbedChunks(ctx, chunks); err != nil {
		return 0, err
	}

	// Drop stale chunks from a previous, longer version of the file
	// before writing; upserts alone would leave orphans behind.
	if err := o.chunkRepo.DeleteChunksBySource(ctx, path); err != nil {
		return 0, fmt.Errorf("failed to clear prior chunks: %w", err)
	}
	if err := o.chunkRepo.UpsertChunks(ctx, chunks...); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	return len(chunks), nil
}

// checkpoint persists the full run state.
func (o *Orchestrator) checkpoint(ctx context.Context, state *RunState) error {
	if err := o.progressRepo.SaveRecords(ctx, state.Records()...); err != nil {
		return fmt.Errorf("failed to checkpoint progress state: %w", err)
	}
	o.logger.Debug("checkpointed progress state", "records", len(state.Records()))
	return nil
}

func (o *Orchestrator) summarize(state *RunState, totalChunks int) *Summary {
	return &Summary{
		Total:       state.Processed + state.Skipped,
		Succeeded:   state.Succeeded,
		Failed:      state.Failed,
		Skipped:     state.Skipped,
		TotalChunks: totalChunks,
		FailedFiles: state.Errors(),
	}
}
