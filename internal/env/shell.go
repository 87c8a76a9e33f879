package env

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/flowshell/internal/archive"
	"github.com/vk/flowshell/internal/config"
	"github.com/vk/flowshell/internal/engine"
	"github.com/vk/flowshell/internal/session"
)

// ShellEnvironment binds the shared submission path to a live interactive
// session. On every Execute it writes the session's current compiled state
// to a fresh archive and submits that archive together with the explicitly
// supplied dependency archives, so code added to the session between two
// runs is included automatically.
type ShellEnvironment struct {
	*RemoteEnvironment

	deps []archive.Reference
	sess session.Session

	// mu keeps two concurrent Execute calls from interleaving their
	// dependency-list writes into the shared configuration.
	mu sync.Mutex
}

// NewShellEnvironment resolves dependencyPaths and binds sess to a new
// environment. The resolved list is immutable afterwards; resolution fails
// outright on the first invalid path or archive.
func NewShellEnvironment(
	cfg *config.Configuration,
	sess session.Session,
	client engine.Client,
	dependencyPaths ...string,
) (*ShellEnvironment, error) {
	if sess == nil {
		return nil, fmt.Errorf("session must not be nil")
	}

	remote, err := NewRemoteEnvironment(cfg, client)
	if err != nil {
		return nil, err
	}

	deps, err := archive.Resolve(dependencyPaths)
	if err != nil {
		return nil, err
	}

	return &ShellEnvironment{
		RemoteEnvironment: remote,
		deps:              deps,
		sess:              sess,
	}, nil
}

// Execute packages the session's current artifacts and submits the job. The
// attached-mode check runs before anything else, so a misconfigured
// environment causes no archive write. The session is always repackaged,
// even after a failed submission: reusing a stale archive would silently
// drop code written since.
func (e *ShellEnvironment) Execute(ctx context.Context, jobName string) (*engine.JobResult, error) {
	if err := requireAttachedMode(e.cfg); err != nil {
		return nil, err
	}

	fresh, err := e.sess.FlushToArchive()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactPackagingFailed, err)
	}

	merged := mergeDependencies(e.deps, fresh)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := encodeDependencies(e.cfg, merged); err != nil {
		return nil, err
	}
	return e.RemoteEnvironment.Execute(ctx, jobName)
}

// Dependencies returns a copy of the explicitly supplied archive references,
// in resolution order.
func (e *ShellEnvironment) Dependencies() []archive.Reference {
	out := make([]archive.Reference, len(e.deps))
	copy(out, e.deps)
	return out
}
