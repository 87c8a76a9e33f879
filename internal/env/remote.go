package env

import (
	"context"
	"fmt"

	"github.com/vk/flowshell/internal/config"
	"github.com/vk/flowshell/internal/engine"
)

// RemoteEnvironment is the shared submission path: it hands a job name and
// an already prepared configuration to the cluster client and blocks for the
// attached result. Variants that assemble dependencies first wrap it.
type RemoteEnvironment struct {
	cfg    *config.Configuration
	client engine.Client
}

// NewRemoteEnvironment validates the configuration and returns an
// environment bound to client. Construction fails when the process context
// already manages an environment, or when cfg does not declare attached
// submission; this environment type supports exactly one submission mode.
func NewRemoteEnvironment(cfg *config.Configuration, client engine.Client) (*RemoteEnvironment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration must not be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("engine client must not be nil")
	}
	if !explicitEnvironmentsAllowed() {
		return nil, ErrEnvironmentDisallowed
	}
	if err := requireAttachedMode(cfg); err != nil {
		return nil, err
	}
	return &RemoteEnvironment{cfg: cfg, client: client}, nil
}

// Execute submits the job carried by the environment's configuration. The
// submission blocks until the cluster reports a terminal state; engine
// failures pass through unchanged, and no retry is attempted because a
// submission is not idempotent from the caller's point of view.
func (e *RemoteEnvironment) Execute(ctx context.Context, jobName string) (*engine.JobResult, error) {
	if err := requireAttachedMode(e.cfg); err != nil {
		return nil, err
	}
	e.cfg.SetString(config.KeyPipelineName, jobName)
	return e.client.Submit(ctx, jobName, e.cfg)
}

// Configuration exposes the environment's own configuration object.
func (e *RemoteEnvironment) Configuration() *config.Configuration {
	return e.cfg
}
