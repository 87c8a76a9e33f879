// Package cli parses the shell's command-line arguments into an app.Config.
// It owns the usage text and the exit-code convention; everything after
// argument parsing belongs to the app package.
package cli
