package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quarterlane/docbase/core"
)

// Outcome summarizes how a run ended.
type Outcome string

const (
	OutcomeAllSucceeded   Outcome = "all_succeeded"
	OutcomePartialSuccess Outcome = "partial_success"
	OutcomeTotalFailure   Outcome = "total_failure"
)

// Summary is the final result of one pipeline run.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	Skipped     int
	TotalChunks int
	FailedFiles []core.FileError
}

// Outcome distinguishes "all succeeded", "partial success" and
// "total failure" for the run.
func (s *Summary) Outcome() Outcome {
	switch {
	case s.Failed == 0:
		return OutcomeAllSucceeded
	case s.Succeeded == 0 && s.Skipped == 0:
		return OutcomeTotalFailure
	default:
		return OutcomePartialSuccess
	}
}

// WriteErrorReport writes the machine-readable error report: a JSON
// array of {path, error_message, timestamp} entries, one per failed
// file.
func WriteErrorReport(path string, fileErrors []core.FileError) error {
	data, err := json.MarshalIndent(fileErrors, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode error report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write error report: %w", err)
	}
	return nil
}
