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
	"sort"
	"time"

	"github.com/quarterlane/docbase/core"
)

// RunState is the process-wide state of one pipeline execution: the
// full path to progress-record mapping, the run-scoped error list and
// counters. It is owned solely by the orchestrator and never shared
// across processes.
type RunState struct {
	records   map[string]*core.ProgressRecord
	errors    []core.FileError
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

// NewRunState builds run state from prior persisted records and the
// discovered paths. Prior failed records return to pending so they are
// retried this run. Discovered paths without a prior record start
// pending.
func NewRunState(prior map[string]*core.ProgressRecord, paths []string) *RunState {
	s := &RunState{
		records: make(map[string]*core.ProgressRecord, len(paths)),
	}

	for _, path := range paths {
		if record, ok := prior[path]; ok {
			// A record stuck in_progress means the previous run died
			// mid-file; its chunks may be partial, so retry it.
			if record.Status == core.StatusFailed || record.Status == core.StatusInProgress {
				record.Status = core.StatusPending
				record.ErrorMessage = ""
			}
			s.records[path] = record
			continue
		}
		s.records[path] = &core.ProgressRecord{
			Path:        path,
			Status:      core.StatusPending,
			LastUpdated: time.Now().UTC(),
		}
	}

	return s
}

// IsCompleted reports whether a path finished in a prior run and can be
// skipped.
func (s *RunState) IsCompleted(path string) bool {
	record, ok := s.records[path]
	return ok && record.Status == core.StatusCompleted
}

// MarkInProgress transitions a pending path to in_progress.
func (s *RunState) MarkInProgress(path string) error {
	return s.transition(path, core.StatusInProgress, 0, "")
}

// MarkCompleted transitions an in_progress path to completed and
// records its chunk count.
func (s *RunState) MarkCompleted(path string, chunkCount int) error {
	if err := s.transition(path, core.StatusCompleted, chunkCount, ""); err != nil {
		return err
	}
	s.Processed++
	s.Succeeded++
	return nil
}

// MarkFailed transitions an in_progress path to failed and records the
// error for the run report.
func (s *RunState) MarkFailed(path string, cause error) error {
	if err := s.transition(path, core.StatusFailed, 0, cause.Error()); err != nil {
		return err
	}
	s.Processed++
	s.Failed++
	s.errors = append(s.errors, core.FileError{
		Path:         path,
		ErrorMessage: cause.Error(),
		Timestamp:    time.Now().UTC(),
	})
	return nil
}

// MarkSkipped counts a path skipped because a prior run completed it.
func (s *RunState) MarkSkipped(path string) {
	s.Skipped++
}

func (s *RunState) transition(path string, to core.FileStatus, chunkCount int, errMsg string) error {
	record, ok := s.records[path]
	if !ok {
		return ErrUnknownPath
	}
	if err := core.ValidateTransition(record.Status, to); err != nil {
		return err
	}
	record.Status = to
	record.ChunkCount = chunkCount
	record.ErrorMessage = errMsg
	record.LastUpdated = time.Now().UTC()
	return nil
}

// Records returns all progress records ordered by path, for
// checkpointing.
func (s *RunState) Records() []*core.ProgressRecord {
	records := make([]*core.ProgressRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	return records
}

// Errors returns the run-scoped error list in failure order.
func (s *RunState) Errors() []core.FileError {
	return s.errors
}
