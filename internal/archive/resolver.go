package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve turns user-supplied archive paths into validated absolute
// references, preserving input order. It fails on the first bad entry and
// returns no partial result: a half-resolved dependency set would later
// produce a job missing code it needs.
func Resolve(paths []string) ([]Reference, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	refs := make([]Reference, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("%w: empty path", ErrInvalidDependencyPath)
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidDependencyPath, path, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidDependencyPath, path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w %q: is a directory", ErrInvalidDependencyPath, path)
		}

		if err := Validate(abs); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidDependencyArchive, path, err)
		}

		refs = append(refs, Reference{path: abs})
	}
	return refs, nil
}
