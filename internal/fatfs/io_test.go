package fatfs_test

import (
	"strings"
	"testing"

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/stretchr/testify/require"
)

func TestFilenameLengthLimit(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-io-a", 4)
	defer v.Unmount()

	// 15 bytes plus the NUL terminator exactly fills the name field.
	require.NoError(t, v.Create("abcdefghijklmno"))

	err := v.Create("abcdefghijklmnop")
	require.ErrorIs(t, err, fatfs.ErrInvalidName)

	err = v.Create("")
	require.ErrorIs(t, err, fatfs.ErrInvalidName)
}

func TestShortWriteSeekRead(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-io-b", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("hello.txt"))
	fd, err := v.Open("hello.txt")
	require.NoError(t, err)

	n, err := v.Write(fd, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	size, err := v.Stat("hello.txt")
	require.NoError(t, err)
	require.Equal(t, uint32(5), size)

	require.NoError(t, v.Lseek(fd, 3))

	buf := make([]byte, 10)
	n, err = v.Read(fd, buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "lo", string(buf[:n]))
}

func TestWriteSpansBlockBoundary(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-io-c", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("two.bin"))
	fd, err := v.Open("two.bin")
	require.NoError(t, err)

	// One byte past a block boundary claims a second data block.
	free := v.Info().FreeBlocks
	n, err := v.Write(fd, make([]byte, fatfs.BlockSize+1))
	require.NoError(t, err)
	require.Equal(t, fatfs.BlockSize+1, n)
	require.Equal(t, free-2, v.Info().FreeBlocks)

	size, err := v.Stat("two.bin")
	require.NoError(t, err)
	require.Equal(t, uint32(fatfs.BlockSize+1), size)
}

func TestDescriptorsHaveIndependentOffsets(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-io-d", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("shared.txt"))

	fd1, err := v.Open("shared.txt")
	require.NoError(t, err)
	fd2, err := v.Open("shared.txt")
	require.NoError(t, err)
	require.NotEqual(t, fd1, fd2)

	_, err = v.Write(fd1, []byte("0123456789"))
	require.NoError(t, err)

	require.NoError(t, v.Lseek(fd1, 7))
	require.NoError(t, v.Lseek(fd2, 2))

	off1, err := v.Tell(fd1)
	require.NoError(t, err)
	off2, err := v.Tell(fd2)
	require.NoError(t, err)
	require.Equal(t, int64(7), off1)
	require.Equal(t, int64(2), off2)

	// Both descriptors see the one shared file state.
	buf := make([]byte, 3)
	n, err := v.Read(fd2, buf)
	require.NoError(t, err)
	require.Equal(t, "234", string(buf[:n]))
}

func TestOverwritePreservesSurroundingBytes(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-io-e", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("rmw.bin"))
	fd, err := v.Open("rmw.bin")
	require.NoError(t, err)

	payload := []byte(strings.Repeat("abcdefgh", fatfs.BlockSize/4))
	_, err = v.Write(fd, payload)
	require.NoError(t, err)

	// Overwrite a short range straddling the first block boundary.
	at := fatfs.BlockSize - 2
	require.NoError(t, v.Lseek(fd, int64(at)))
	_, err = v.Write(fd, []byte("XXXX"))
	require.NoError(t, err)

	require.NoError(t, v.Lseek(fd, 0))
	out := make([]byte, len(payload))
	n, err := v.Read(fd, out)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)

	copy(payload[at:], "XXXX")
	require.Equal(t, payload, out)

	// The overwrite landed inside the file; its size must not have grown.
	size, err := v.Stat("rmw.bin")
	require.NoError(t, err)
	require.Equal(t, uint32(len(payload)), size)
}

func TestZeroLengthTransfers(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-io-f", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("z.txt"))
	fd, err := v.Open("z.txt")
	require.NoError(t, err)

	n, err := v.Write(fd, nil)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = v.Read(fd, nil)
	require.NoError(t, err)
	require.Zero(t, n)

	// A zero-length write must not allocate a chain.
	require.Equal(t, 3, v.Info().FreeBlocks)
}

func TestUnmountRemountPreservesContent(t *testing.T) {
	v, dev := mustFormatAndMount(t, "vol-io-g", 4)

	require.NoError(t, v.Create("keep.bin"))
	fd, err := v.Open("keep.bin")
	require.NoError(t, err)

	payload := make([]byte, fatfs.BlockSize+100)
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	_, err = v.Write(fd, payload)
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Unmount())

	v, err = fatfs.Mount("vol-io-g", dev)
	require.NoError(t, err)
	defer v.Unmount()

	size, err := v.Stat("keep.bin")
	require.NoError(t, err)
	require.Equal(t, uint32(len(payload)), size)

	fd, err = v.Open("keep.bin")
	require.NoError(t, err)
	out := make([]byte, len(payload))
	n, err := v.Read(fd, out)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.Equal(t, payload, out)
	require.NoError(t, v.Close(fd))
}

func TestCreateDeleteRestoresState(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-io-h", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("stay.txt"))
	freeBefore := v.Info().FreeBlocks
	slotsBefore := v.Info().FreeRootSlots

	require.NoError(t, v.Create("temp.bin"))
	fd, err := v.Open("temp.bin")
	require.NoError(t, err)
	_, err = v.Write(fd, make([]byte, fatfs.BlockSize*2))
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Delete("temp.bin"))

	require.Equal(t, freeBefore, v.Info().FreeBlocks)
	require.Equal(t, slotsBefore, v.Info().FreeRootSlots)
	require.Len(t, v.List(), 1)
}

func TestBadFDEverywhere(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-io-i", 4)
	defer v.Unmount()

	for _, fd := range []int{-1, 0, fatfs.MaxOpenFiles, 99} {
		_, err := v.Read(fd, make([]byte, 1))
		require.ErrorIs(t, err, fatfs.ErrBadFD)

		_, err = v.Write(fd, make([]byte, 1))
		require.ErrorIs(t, err, fatfs.ErrBadFD)

		require.ErrorIs(t, v.Lseek(fd, 0), fatfs.ErrBadFD)
		require.ErrorIs(t, v.Close(fd), fatfs.ErrBadFD)
	}
}
