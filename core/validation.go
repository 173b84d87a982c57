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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - SourcePath must not be empty
//   - ChunkIndex must not be negative
//
// NOT validated (populated by later stages):
//   - Vector (empty until the embedding stage runs)
//   - TokenCount (the final document chunk may be below the minimum)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if chunk.SourcePath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySourcePath)
	}

	if chunk.ChunkIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}

	return nil
}

// ValidateProgressRecord validates a ProgressRecord according to domain rules.
func ValidateProgressRecord(record *ProgressRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidProgressRecord)
	}

	if record.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProgressRecord, ErrEmptySourcePath)
	}

	if err := ValidateStatus(record.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProgressRecord, err)
	}

	return nil
}

// ValidateStatus validates that a FileStatus has a recognized value.
func ValidateStatus(status FileStatus) error {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}

// ValidateTransition checks that moving a record from one status to another
// is allowed by the processing state machine.
//
// Allowed transitions:
//   - pending -> in_progress
//   - in_progress -> completed
//   - in_progress -> failed
//   - failed -> pending (retry at the start of a new run)
func ValidateTransition(from, to FileStatus) error {
	allowed := map[FileStatus][]FileStatus{
		StatusPending:    {StatusInProgress},
		StatusInProgress: {StatusCompleted, StatusFailed},
		StatusFailed:     {StatusPending},
	}

	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
