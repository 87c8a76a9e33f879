package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vk/flowshell/internal/fsutil"
)

// manifestName mirrors the jar layout the engine's class loading expects.
const manifestName = "META-INF/MANIFEST.MF"

// entryEpoch is the fixed modification time stamped on every archive entry,
// so that identical inputs produce byte-identical archives.
var entryEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// BuildArchive packages every file under srcDir into a fresh archive at
// dstPath and returns a validated Reference to it. Entries are written in
// sorted path order with a fixed timestamp. A srcDir with no files still
// yields a loadable archive holding only the manifest.
func BuildArchive(srcDir, dstPath string) (Reference, error) {
	files, err := fsutil.ListFiles(srcDir)
	if err != nil {
		return Reference{}, fmt.Errorf("cannot list artifacts in %s: %w", srcDir, err)
	}
	sort.Strings(files)

	out, err := os.Create(dstPath)
	if err != nil {
		return Reference{}, fmt.Errorf("cannot create archive %s: %w", dstPath, err)
	}

	if err := writeEntries(out, srcDir, files); err != nil {
		out.Close()
		os.Remove(dstPath)
		return Reference{}, fmt.Errorf("cannot write archive %s: %w", dstPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dstPath)
		return Reference{}, fmt.Errorf("cannot finish archive %s: %w", dstPath, err)
	}

	return NewReference(dstPath)
}

func writeEntries(out io.Writer, srcDir string, files []string) error {
	zw := zip.NewWriter(out)

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     manifestName,
		Method:   zip.Deflate,
		Modified: entryEpoch,
	})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "Manifest-Version: 1.0\n"); err != nil {
		return err
	}

	for _, rel := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     filepath.ToSlash(rel),
			Method:   zip.Deflate,
			Modified: entryEpoch,
		})
		if err != nil {
			return err
		}

		src, err := os.Open(filepath.Join(srcDir, rel))
		if err != nil {
			return err
		}
		_, err = io.Copy(w, src)
		src.Close()
		if err != nil {
			return err
		}
	}

	return zw.Close()
}
