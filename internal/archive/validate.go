package archive

import (
	"archive/zip"
	"errors"
	"fmt"
)

// Validate checks that path is a loadable archive: it must open as a zip
// file and contain at least one entry. It performs reads only.
func Validate(path string) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("cannot open archive: %w", err)
	}
	defer reader.Close()

	if len(reader.File) == 0 {
		return errors.New("archive has no entries")
	}
	return nil
}
