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
	"time"

	"github.com/quarterlane/docbase/chunk"
)

const (
	// DefaultCheckpointInterval is how many processed files pass between
	// durable progress checkpoints.
	DefaultCheckpointInterval = 10

	// DefaultMaxRetries is the maximum number of attempts for an
	// embedding batch call.
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the starting delay for exponential backoff.
	DefaultBaseDelay = 1 * time.Second

	// DefaultBatchDelay is the pause between consecutive successful
	// embedding batch calls, to stay under steady-state rate limits.
	DefaultBatchDelay = 100 * time.Millisecond

	// DefaultBatchSize is the number of chunk texts per embedding call.
	DefaultBatchSize = 64

	// DefaultExtension is the document extension discovery recognizes.
	DefaultExtension = ".md"

	// maxConsecutiveFatal is how many files may fail fatally in direct
	// succession before the run aborts.
	maxConsecutiveFatal = 3
)

// Config holds configuration for a pipeline run.
type Config struct {
	// SourceRoot is the directory tree to discover documents under.
	SourceRoot string

	// Extension is the recognized document extension, including the dot.
	Extension string

	// TargetTokens is the target chunk size in tokens.
	TargetTokens int

	// OverlapTokens is the token span shared between adjacent split chunks.
	OverlapTokens int

	// MinChunkTokens is the minimum chunk size before merging.
	MinChunkTokens int

	// MaxRetries is the maximum number of attempts for embedding calls.
	MaxRetries int

	// BaseDelay is the base delay for exponential backoff.
	BaseDelay time.Duration

	// BatchDelay is the pause between consecutive successful batches.
	BatchDelay time.Duration

	// BatchSize is the number of chunk texts per embedding call.
	BatchSize int

	// CheckpointInterval is how many processed files pass between
	// progress checkpoints.
	CheckpointInterval int

	// Reset discards all prior progress state at run start.
	Reset bool

	// StrictState makes unreadable persisted state a process-fatal error
	// instead of a warning plus a fresh start.
	StrictState bool

	// VersionTag is stamped into every chunk's metadata for this run.
	VersionTag string

	// ErrorReportPath, when set, is where the machine-readable error
	// report is written at run end if any file failed.
	ErrorReportPath string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extension:          DefaultExtension,
		TargetTokens:       chunk.DefaultTargetTokens,
		OverlapTokens:      chunk.DefaultOverlapTokens,
		MinChunkTokens:     chunk.DefaultMinChunkTokens,
		MaxRetries:         DefaultMaxRetries,
		BaseDelay:          DefaultBaseDelay,
		BatchDelay:         DefaultBatchDelay,
		BatchSize:          DefaultBatchSize,
		CheckpointInterval: DefaultCheckpointInterval,
	}
}

// Validate checks configuration values are usable.
func (c *Config) Validate() error {
	if c.SourceRoot == "" {
		return ErrInvalidConfig
	}
	if c.Extension == "" {
		return ErrInvalidConfig
	}
	if c.TargetTokens <= 0 || c.OverlapTokens < 0 || c.MinChunkTokens < 0 {
		return ErrInvalidConfig
	}
	if c.OverlapTokens >= c.TargetTokens {
		return ErrInvalidConfig
	}
	if c.MaxRetries <= 0 || c.BatchSize <= 0 || c.CheckpointInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.BaseDelay < 0 || c.BatchDelay < 0 {
		return ErrInvalidConfig
	}
	return nil
}
