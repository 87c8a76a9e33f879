// Package app wires the shell together: it loads the shell configuration,
// builds the logger, the interactive session, the engine client and the
// session-bound execution environment, and drives the interactive loop. It
// is decoupled from any specific entrypoint like a CLI.
package app
