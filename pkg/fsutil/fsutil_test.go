package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecs150fs/ecs150fs/pkg/fsutil"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirCreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	created, err := fsutil.EnsureDir(dir, false)
	require.NoError(t, err)
	require.True(t, created)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	// A second call finds the directory already there.
	created, err = fsutil.EnsureDir(dir, false)
	require.NoError(t, err)
	require.False(t, created)
}

func TestEnsureDirRejectsNonEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x"), []byte("x"), 0644))

	_, err := fsutil.EnsureDir(dir, true)
	require.Error(t, err)
}

func TestEnsureDirRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := fsutil.EnsureDir(path, false)
	require.Error(t, err)
}

func TestRegularFilesExpandsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	files, err := fsutil.RegularFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	// A plain file yields itself.
	files, err = fsutil.RegularFiles(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.txt")}, files)
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "512 B", fsutil.FormatSize(512))
	require.Equal(t, "1.5 KiB", fsutil.FormatSize(1536))
	require.Equal(t, "4.0 MiB", fsutil.FormatSize(4*1024*1024))
}
