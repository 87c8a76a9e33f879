// Package engine is the shell's client for the remote dataflow cluster. The
// cluster itself (planner, scheduler, task runtime) is an external system;
// this package only speaks its submission API and reports outcomes back.
package engine
