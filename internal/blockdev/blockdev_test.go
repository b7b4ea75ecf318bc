package blockdev_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecs150fs/ecs150fs/internal/blockdev"
	"github.com/stretchr/testify/require"
)

func TestOpenCreateSizesImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")

	dev, err := blockdev.Open(path, true, 8)
	require.NoError(t, err)
	defer dev.Close()

	require.Equal(t, uint16(8), dev.BlockCount())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(8*blockdev.BlockSize), fi.Size())
}

func TestWriteReadBlockRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")

	dev, err := blockdev.Open(path, true, 4)
	require.NoError(t, err)

	out := make([]byte, blockdev.BlockSize)
	for i := range out {
		out[i] = byte(i)
	}
	require.NoError(t, dev.WriteBlock(2, out))

	in := make([]byte, blockdev.BlockSize)
	require.NoError(t, dev.ReadBlock(2, in))
	require.Equal(t, out, in)

	require.NoError(t, dev.Close())

	// Blocks persist across a close/reopen cycle.
	dev, err = blockdev.Open(path, false, 0)
	require.NoError(t, err)
	defer dev.Close()

	require.Equal(t, uint16(4), dev.BlockCount())
	require.NoError(t, dev.ReadBlock(2, in))
	require.Equal(t, out, in)
}

func TestOpenRejectsUnalignedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.img")
	require.NoError(t, os.WriteFile(path, make([]byte, blockdev.BlockSize+1), 0644))

	_, err := blockdev.Open(path, false, 0)
	require.Error(t, err)
}

func TestReadBlockRejectsShortBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")

	dev, err := blockdev.Open(path, true, 2)
	require.NoError(t, err)
	defer dev.Close()

	require.Error(t, dev.ReadBlock(0, make([]byte, 512)))
	require.Error(t, dev.WriteBlock(0, make([]byte, 512)))
}
