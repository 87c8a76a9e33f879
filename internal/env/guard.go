package env

import (
	"fmt"
	"sync"
)

// guardState is the state of the process-wide environment slot.
type guardState int

const (
	guardUnset guardState = iota
	guardSet
	guardLocked
)

// contextGuard is the process-wide slot holding "the" default environment
// factory. All transitions happen inside one critical section, so two
// concurrent installers can never both observe an empty slot and both win.
type contextGuard struct {
	mu      sync.Mutex
	state   guardState
	factory Factory
}

var guard contextGuard

// InstallContextFactory installs factory as the process's default
// environment source. A second installation, or any installation after
// DisableAllOtherEnvironments, fails loudly with
// ErrEnvironmentAlreadyDefined rather than silently replacing the slot: a
// silent override would let an unrelated code path submit through the wrong
// environment.
func InstallContextFactory(factory Factory) error {
	if factory == nil {
		return fmt.Errorf("context factory must not be nil")
	}

	guard.mu.Lock()
	defer guard.mu.Unlock()

	if guard.state != guardUnset {
		return ErrEnvironmentAlreadyDefined
	}
	guard.state = guardSet
	guard.factory = factory
	return nil
}

// DisableAllOtherEnvironments permanently refuses further factory
// installations until the next reset. A shell calls this after building its
// own environment so nothing else in the process can redefine it. Calling it
// while already locked is a no-op.
func DisableAllOtherEnvironments() {
	guard.mu.Lock()
	defer guard.mu.Unlock()

	guard.state = guardLocked
	guard.factory = nil
}

// ResetContextEnvironments clears the slot, including a locked one. Used on
// session teardown so a later session may install its own environment.
func ResetContextEnvironments() {
	guard.mu.Lock()
	defer guard.mu.Unlock()

	guard.state = guardUnset
	guard.factory = nil
}

// ContextEnvironment returns an environment from the installed factory.
func ContextEnvironment() (Environment, error) {
	guard.mu.Lock()
	state, factory := guard.state, guard.factory
	guard.mu.Unlock()

	switch state {
	case guardSet:
		return factory()
	case guardLocked:
		return nil, ErrEnvironmentAlreadyDefined
	default:
		return nil, fmt.Errorf("no context environment installed")
	}
}

// explicitEnvironmentsAllowed reports whether constructing an environment by
// hand is permitted. It is false as soon as any factory is installed or the
// slot is locked.
func explicitEnvironmentsAllowed() bool {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	return guard.state == guardUnset
}
