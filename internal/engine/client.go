package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/flowshell/internal/config"
)

// JobState is a job's lifecycle state as reported by the cluster.
type JobState string

const (
	StatePending  JobState = "PENDING"
	StateRunning  JobState = "RUNNING"
	StateFinished JobState = "FINISHED"
	StateFailed   JobState = "FAILED"
	StateCanceled JobState = "CANCELED"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	switch s {
	case StateFinished, StateFailed, StateCanceled:
		return true
	}
	return false
}

// JobResult is the outcome of one attached submission.
type JobResult struct {
	JobID   string
	State   JobState
	Runtime time.Duration
}

// Error is a failure raised by the cluster. It carries the engine's stable
// error code next to the original message so that nothing is lost crossing
// the submission boundary; the environment passes it through unchanged.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("engine: %s", e.Message)
	}
	return fmt.Sprintf("engine: %s: %s", e.Code, e.Message)
}

// Client submits jobs to a cluster. Submit blocks until the job reaches a
// terminal state (attached semantics); cancellation is driven by ctx.
type Client interface {
	Submit(ctx context.Context, jobName string, cfg *config.Configuration) (*JobResult, error)
	Close() error
}
