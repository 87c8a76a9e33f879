// Package session defines the contract between the shell and a live
// interactive session. It abstracts away how the session compiles and stores
// its incrementally growing output.
package session

import "github.com/vk/flowshell/internal/archive"

// Session represents a live, incrementally compiled programming session.
type Session interface {
	// ID identifies the session for the lifetime of the process.
	ID() string

	// FlushToArchive packages the session's currently compiled artifacts
	// into one freshly built archive. It must be callable repeatedly; each
	// call reflects the session's state at call time.
	FlushToArchive() (archive.Reference, error)

	// Close releases the session's scratch space.
	Close() error
}

// Compiler translates one source unit into a compiled artifact. The real
// compiler lives outside this process; implementations here only need to
// produce bytes worth packaging.
type Compiler interface {
	Compile(name string, source []byte) ([]byte, error)
}
