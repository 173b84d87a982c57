package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarterlane/docbase/core"
)

func TestNewRunStateFreshStart(t *testing.T) {
	state := NewRunState(nil, []string{"a.md", "b.md"})

	assert.False(t, state.IsCompleted("a.md"))
	assert.False(t, state.IsCompleted("b.md"))

	records := state.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "a.md", records[0].Path)
	assert.Equal(t, core.StatusPending, records[0].Status)
}

func TestNewRunStateResumesPrior(t *testing.T) {
	prior := map[string]*core.ProgressRecord{
		"done.md":    {Path: "done.md", Status: core.StatusCompleted, ChunkCount: 3},
		"failed.md":  {Path: "failed.md", Status: core.StatusFailed, ErrorMessage: "rate limited"},
		"crashed.md": {Path: "crashed.md", Status: core.StatusInProgress},
	}
	state := NewRunState(prior, []string{"crashed.md", "done.md", "failed.md", "new.md"})

	assert.True(t, state.IsCompleted("done.md"), "completed files skip")
	assert.False(t, state.IsCompleted("failed.md"), "failed files retry")
	assert.False(t, state.IsCompleted("crashed.md"), "in_progress files retry")

	// failed and in_progress records return to pending with the error cleared
	for _, record := range state.Records() {
		if record.Path == "failed.md" || record.Path == "crashed.md" {
			assert.Equal(t, core.StatusPending, record.Status, record.Path)
			assert.Empty(t, record.ErrorMessage, record.Path)
		}
	}
}

func TestRunStateTransitions(t *testing.T) {
	state := NewRunState(nil, []string{"a.md", "b.md"})

	require.NoError(t, state.MarkInProgress("a.md"))
	require.NoError(t, state.MarkCompleted("a.md", 5))

	require.NoError(t, state.MarkInProgress("b.md"))
	require.NoError(t, state.MarkFailed("b.md", errors.New("boom")))

	assert.Equal(t, 2, state.Processed)
	assert.Equal(t, 1, state.Succeeded)
	assert.Equal(t, 1, state.Failed)

	fileErrors := state.Errors()
	require.Len(t, fileErrors, 1)
	assert.Equal(t, "b.md", fileErrors[0].Path)
	assert.Equal(t, "boom", fileErrors[0].ErrorMessage)
	assert.False(t, fileErrors[0].Timestamp.IsZero())
}

func TestRunStateInvalidTransition(t *testing.T) {
	state := NewRunState(nil, []string{"a.md"})

	// completed before in_progress is not a legal move
	err := state.MarkCompleted("a.md", 1)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	// unknown path
	err = state.MarkInProgress("ghost.md")
	assert.ErrorIs(t, err, ErrUnknownPath)
}

func TestRunStateRecordsSortedByPath(t *testing.T) {
	state := NewRunState(nil, []string{"c.md", "a.md", "b.md"})
	records := state.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "a.md", records[0].Path)
	assert.Equal(t, "b.md", records[1].Path)
	assert.Equal(t, "c.md", records[2].Path)
}
