package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.css")

	require.NoError(t, WriteFileAtomic(path, []byte("body{}")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, FilePerm, info.Mode().Perm())
}

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.css")

	written, err := WriteIfChanged(path, []byte("one"))
	require.NoError(t, err)
	assert.True(t, written)

	written, err = WriteIfChanged(path, []byte("one"))
	require.NoError(t, err)
	assert.False(t, written)

	written, err = WriteIfChanged(path, []byte("two"))
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestWriteIfChangedUnreadable(t *testing.T) {
	dir := t.TempDir()

	// A directory in place of the file cannot be read as one.
	_, err := WriteIfChanged(dir, []byte("x"))
	assert.Error(t, err)
}

func TestChecksumStable(t *testing.T) {
	assert.Equal(t, Checksum([]byte("inkwell")), Checksum([]byte("inkwell")))
	assert.NotEqual(t, Checksum([]byte("inkwell")), Checksum([]byte("inkwel1")))
}
