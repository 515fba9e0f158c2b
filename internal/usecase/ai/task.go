package ai

import (
	"context"
	"sync"
)

// TaskState is the progress of one ingestion
type TaskState string

const (
	TaskStateQueued       TaskState = "queued"
	TaskStateTranscribing TaskState = "transcribing"
	TaskStateReady        TaskState = "ready"
	TaskStateFailed       TaskState = "failed"
	TaskStateSkipped      TaskState = "skipped" // no transcription provider configured
)

// Task is the handle of a detached ingestion. Nothing has to wait on it.
type Task struct {
	MemoID string

	mu    sync.Mutex
	state TaskState
	err   error
	done  chan struct{}
}

func newTask(memoID string) *Task {
	return &Task{MemoID: memoID, state: TaskStateQueued, done: make(chan struct{})}
}

func finishedTask(memoID string, state TaskState, err error) *Task {
	t := newTask(memoID)
	t.finish(state, err)
	return t
}

// Done is closed when the ingestion reached a terminal state
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// State returns the current state
func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the failure cause of a failed task
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task finishes or ctx is done
func (t *Task) Wait(ctx context.Context) (TaskState, error) {
	select {
	case <-t.done:
		return t.State(), t.Err()
	case <-ctx.Done():
		return t.State(), ctx.Err()
	}
}

func (t *Task) set(state TaskState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
}

func (t *Task) finish(state TaskState, err error) {
	t.mu.Lock()
	t.state = state
	t.err = err
	t.mu.Unlock()
	close(t.done)
}
