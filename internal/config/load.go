package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// ShellConfig is the decoded shell configuration file. It describes the
// cluster target and shell behaviour, not any single job.
type ShellConfig struct {
	Engine             EngineBlock   `hcl:"engine,block"`
	Session            *SessionBlock `hcl:"session,block"`
	Log                *LogBlock     `hcl:"log,block"`
	DependencyArchives []string      `hcl:"dependency_archives,optional"`
}

// EngineBlock points the shell at a cluster's submission API.
type EngineBlock struct {
	Address        string `hcl:"address"`
	Port           int    `hcl:"port,optional"`
	RequestTimeout string `hcl:"request_timeout,optional"`
}

// SessionBlock configures the interactive session's scratch space.
type SessionBlock struct {
	WorkDir string `hcl:"work_dir,optional"`
}

// LogBlock configures shell logging.
type LogBlock struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// Load parses and decodes the shell configuration file at path. Expressions
// in the file may reference process environment variables through the `env`
// object, e.g. `address = env.FLOW_ENGINE_ADDR`.
func Load(path string, environ []string) (*ShellConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}

	cfg := &ShellConfig{}
	if diags := gohcl.DecodeBody(file.Body, evalContext(environ), cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// evalContext exposes the process environment to HCL expressions as a single
// `env` object value.
func evalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vars)},
	}
}

func (c *ShellConfig) applyDefaults() {
	if c.Engine.Port == 0 {
		c.Engine.Port = 8081
	}
	if c.Engine.RequestTimeout == "" {
		c.Engine.RequestTimeout = "30s"
	}
	if c.Session == nil {
		c.Session = &SessionBlock{}
	}
	if c.Log == nil {
		c.Log = &LogBlock{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *ShellConfig) validate() error {
	if c.Engine.Address == "" {
		return fmt.Errorf("engine block: address is required")
	}
	if _, err := time.ParseDuration(c.Engine.RequestTimeout); err != nil {
		return fmt.Errorf("engine block: invalid request_timeout: %w", err)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log block: invalid level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log block: invalid format %q", c.Log.Format)
	}
	return nil
}

// Endpoint returns the engine submission API base URL.
func (c *ShellConfig) Endpoint() string {
	return fmt.Sprintf("http://%s:%d", c.Engine.Address, c.Engine.Port)
}

// JobConfiguration materializes the submission Configuration this shell
// targets: attached mode is always declared, because the interactive path
// supports no other mode.
func (c *ShellConfig) JobConfiguration() *Configuration {
	cfg := New()
	cfg.SetBool(KeyExecutionAttached, true)
	cfg.SetString(KeyEngineEndpoint, c.Endpoint())
	cfg.SetString(KeyEngineRequestTimeout, c.Engine.RequestTimeout)
	return cfg
}
