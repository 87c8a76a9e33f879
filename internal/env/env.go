package env

import (
	"context"
	"errors"

	"github.com/vk/flowshell/internal/engine"
)

// Environment executes named jobs against some target. The closed set of
// variants (remote, session-bound) differs only in how the dependency list
// is assembled before the shared submission path runs.
type Environment interface {
	Execute(ctx context.Context, jobName string) (*engine.JobResult, error)
}

// Factory produces the process's default Environment on demand.
type Factory func() (Environment, error)

var (
	// ErrUnsupportedSubmissionMode is returned when a configuration does not
	// declare attached submission, the only mode the interactive path
	// supports.
	ErrUnsupportedSubmissionMode = errors.New("only attached submission mode is supported")

	// ErrEnvironmentAlreadyDefined is returned when an environment factory
	// is already installed (or installation is locked) for this process.
	ErrEnvironmentAlreadyDefined = errors.New("an execution environment is already defined for this process")

	// ErrEnvironmentDisallowed is returned when an explicit environment is
	// constructed while the process context already manages one.
	ErrEnvironmentDisallowed = errors.New("an explicit execution environment cannot be constructed in a context-managed process")

	// ErrArtifactPackagingFailed is returned when the session cannot
	// materialize its compiled artifacts into a fresh archive.
	ErrArtifactPackagingFailed = errors.New("cannot package session artifacts")
)
