// Package config holds the two configuration surfaces of the shell: the
// Configuration key/value store that travels with every job submission, and
// the HCL shell configuration file a user points the CLI at. The submission
// side is deliberately a flat string store so that whatever the engine does
// with it stays opaque to this process.
package config
