package config

import (
	"sort"
	"strconv"
)

// Well-known option keys understood by the submission path.
const (
	// KeyExecutionAttached marks a configuration as attached-mode: the
	// submitting process blocks until the job reaches a terminal state.
	KeyExecutionAttached = "execution.attached"

	// KeyPipelineArchives holds the encoded, ordered list of archive
	// locations a job needs at execution time.
	KeyPipelineArchives = "pipeline.archives"

	// KeyPipelineName carries the job name handed to the engine.
	KeyPipelineName = "pipeline.name"

	// KeyEngineEndpoint is the base URL of the engine's submission API.
	KeyEngineEndpoint = "engine.endpoint"

	// KeyEngineRequestTimeout bounds a single engine API request.
	KeyEngineRequestTimeout = "engine.request-timeout"
)

// Configuration is a flat, string-keyed option store attached to a job
// submission. It is owned by exactly one environment instance; it is not
// safe for unsynchronized concurrent use.
type Configuration struct {
	entries map[string]string
}

// New returns an empty Configuration.
func New() *Configuration {
	return &Configuration{entries: make(map[string]string)}
}

// SetString stores value under key, replacing any prior value.
func (c *Configuration) SetString(key, value string) {
	c.entries[key] = value
}

// GetString returns the value stored under key, or def when the key is absent.
func (c *Configuration) GetString(key, def string) string {
	if v, ok := c.entries[key]; ok {
		return v
	}
	return def
}

// SetBool stores a boolean value under key.
func (c *Configuration) SetBool(key string, value bool) {
	c.entries[key] = strconv.FormatBool(value)
}

// GetBool returns the boolean stored under key. Absent or unparseable values
// yield def.
func (c *Configuration) GetBool(key string, def bool) bool {
	v, ok := c.entries[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// SetStringList encodes values and stores them under key, replacing any
// prior value. The previous value is left untouched when encoding fails.
func (c *Configuration) SetStringList(key string, values []string) error {
	encoded, err := EncodeStringList(values)
	if err != nil {
		return err
	}
	c.entries[key] = encoded
	return nil
}

// GetStringList decodes the list stored under key. An absent key yields nil.
func (c *Configuration) GetStringList(key string) []string {
	return DecodeStringList(c.entries[key])
}

// Has reports whether key is present.
func (c *Configuration) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Keys returns all present keys in sorted order, for reproducible snapshots.
func (c *Configuration) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent deep copy.
func (c *Configuration) Clone() *Configuration {
	out := New()
	for k, v := range c.entries {
		out.entries[k] = v
	}
	return out
}

// Snapshot returns the entries as a plain map copy, for serialization.
func (c *Configuration) Snapshot() map[string]string {
	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
