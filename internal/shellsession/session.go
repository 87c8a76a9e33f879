// Package shellsession provides the concrete session.Session used by the
// interactive shell: a virtual artifact directory that grows as the user
// types, flushed to a fresh archive on every submission.
package shellsession

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vk/flowshell/internal/archive"
	"github.com/vk/flowshell/internal/session"
)

// Session implements session.Session for the interactive shell.
type Session struct {
	id       string
	root     string
	classDir string
	jarDir   string
	compiler session.Compiler

	mu      sync.Mutex
	flushes int
}

// New creates a session with a fresh scratch directory. When workDir is
// empty the system temp directory is used; when compiler is nil the source
// unit is stored verbatim, standing in for the external session compiler.
func New(workDir string, compiler session.Compiler) (*Session, error) {
	id := uuid.NewString()

	var root string
	var err error
	if workDir == "" {
		root, err = os.MkdirTemp("", "flowshell-"+id)
	} else {
		root = filepath.Join(workDir, "flowshell-"+id)
		err = os.MkdirAll(root, 0o755)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot create session directory: %w", err)
	}

	s := &Session{
		id:       id,
		root:     root,
		classDir: filepath.Join(root, "classes"),
		jarDir:   filepath.Join(root, "archives"),
		compiler: compiler,
	}
	if s.compiler == nil {
		s.compiler = passthrough{}
	}

	for _, dir := range []string{s.classDir, s.jarDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			os.RemoveAll(root)
			return nil, fmt.Errorf("cannot create session directory: %w", err)
		}
	}
	return s, nil
}

// ID implements session.Session.
func (s *Session) ID() string {
	return s.id
}

// Define compiles one named source unit and stores the resulting artifact in
// the session's virtual artifact directory, where the next flush picks it up.
func (s *Session) Define(name string, source []byte) error {
	if err := checkArtifactName(name); err != nil {
		return err
	}

	compiled, err := s.compiler.Compile(name, source)
	if err != nil {
		return fmt.Errorf("cannot compile %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dst := filepath.Join(s.classDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("cannot store artifact %q: %w", name, err)
	}
	if err := os.WriteFile(dst, compiled, 0o644); err != nil {
		return fmt.Errorf("cannot store artifact %q: %w", name, err)
	}
	return nil
}

// ArtifactCount returns the number of compiled units currently in the
// session.
func (s *Session) ArtifactCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	filepath.WalkDir(s.classDir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return nil
	})
	return count
}

// FlushToArchive implements session.Session. Every call produces a new,
// uniquely named archive reflecting the artifact directory's current
// contents; results are never cached across calls.
func (s *Session) FlushToArchive() (archive.Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flushes++
	dst := filepath.Join(s.jarDir, fmt.Sprintf("session-%s-%d.jar", s.id, s.flushes))
	return archive.BuildArchive(s.classDir, dst)
}

// Close implements session.Session. It removes the scratch directory,
// including every archive a flush produced.
func (s *Session) Close() error {
	return os.RemoveAll(s.root)
}

func checkArtifactName(name string) error {
	if name == "" {
		return fmt.Errorf("artifact name must not be empty")
	}
	if filepath.IsAbs(name) || strings.Contains(name, "..") {
		return fmt.Errorf("artifact name %q must be a relative path inside the session", name)
	}
	return nil
}

// passthrough stores the source unit verbatim. It stands in for the external
// session compiler, which is a collaborator rather than part of the shell.
type passthrough struct{}

func (passthrough) Compile(name string, source []byte) ([]byte, error) {
	return source, nil
}
