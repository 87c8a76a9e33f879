package archive

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Resolution failure kinds. Callers match with errors.Is; the wrapped
// message always names the offending input.
var (
	// ErrInvalidDependencyPath marks a path that cannot denote an archive:
	// malformed, empty, or pointing at nothing.
	ErrInvalidDependencyPath = errors.New("invalid dependency path")

	// ErrInvalidDependencyArchive marks a path that resolves to a file which
	// is not a loadable archive.
	ErrInvalidDependencyArchive = errors.New("invalid dependency archive")
)

// Reference is an absolute, filesystem-resolvable archive location that has
// passed validation. Invalid inputs never produce a Reference.
type Reference struct {
	path string
}

// NewReference resolves path to its absolute form and validates it as a
// loadable archive.
func NewReference(path string) (Reference, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Reference{}, fmt.Errorf("%w %q: %w", ErrInvalidDependencyPath, path, err)
	}
	if err := Validate(abs); err != nil {
		return Reference{}, fmt.Errorf("%w %q: %w", ErrInvalidDependencyArchive, path, err)
	}
	return Reference{path: abs}, nil
}

// Path returns the absolute archive location.
func (r Reference) Path() string {
	return r.path
}

// String implements fmt.Stringer.
func (r Reference) String() string {
	return r.path
}

// IsZero reports whether r is the zero Reference, which denotes no archive.
func (r Reference) IsZero() bool {
	return r.path == ""
}
