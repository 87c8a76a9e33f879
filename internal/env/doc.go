// Package env contains the execution environments a shell process can
// submit jobs through. An Environment is the façade a caller holds; the
// session-bound ShellEnvironment packages the interactive session's current
// artifacts into every submission, while RemoteEnvironment is the shared
// submission path underneath it. A process-wide guard keeps competing
// default environments from clobbering each other.
package env
