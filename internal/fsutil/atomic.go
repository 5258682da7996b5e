// Package fsutil writes generated files atomically and skips writes whose
// content is already on disk.
package fsutil

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// FilePerm is the mode generated files are written with.
const FilePerm fs.FileMode = 0o644

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Checksum returns the CRC32 Castagnoli checksum of data.
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// WriteFileAtomic creates the parent directory and replaces path with data
// in a single rename.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(FilePerm))
	if err != nil {
		return fmt.Errorf("create pending file %s: %w", path, err)
	}
	defer pending.Cleanup() //nolint:errcheck

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}

	return nil
}

// WriteIfChanged writes data to path unless the file already holds exactly
// data. It reports whether a write happened.
func WriteIfChanged(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if Checksum(existing) == Checksum(data) && bytes.Equal(existing, data) {
			return false, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := WriteFileAtomic(path, data); err != nil {
		return false, err
	}
	return true, nil
}
