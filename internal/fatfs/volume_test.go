package fatfs_test

import (
	"testing"

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/stretchr/testify/require"
)

func mustFormatAndMount(t *testing.T, path string, dataBlocks uint16) (*fatfs.Volume, *memDevice) {
	t.Helper()
	fatBlocks := uint16(fatfs.FATBlocksNeeded(dataBlocks))
	total := 1 + fatBlocks + 1 + dataBlocks
	dev := newMemDevice(total)

	v, err := fatfs.FormatAndMount(path, dev, dataBlocks)
	require.NoError(t, err)
	return v, dev
}

func TestFormatAndMount(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-a", 8)
	defer v.Unmount()

	info := v.Info()
	require.Equal(t, uint16(8), info.DataBlocks)
	// dataBlocks=8 gives 7 usable entries; entry 0 is reserved as EOC.
	require.Equal(t, 7, info.FreeBlocks)
	require.Equal(t, fatfs.MaxFiles, info.FreeRootSlots)
}

func TestSingleMountPerPath(t *testing.T) {
	v, dev := mustFormatAndMount(t, "vol-single", 4)
	defer v.Unmount()

	_, err := fatfs.Mount("vol-single", dev)
	require.ErrorIs(t, err, fatfs.ErrAlreadyMount)
}

func TestCreateListDelete(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-b", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("a.txt"))
	require.NoError(t, v.Create("b.txt"))

	_, err := v.Stat("a.txt")
	require.NoError(t, err)

	err = v.Create("a.txt")
	require.ErrorIs(t, err, fatfs.ErrExists)

	entries := v.List()
	require.Len(t, entries, 2)
	require.Equal(t, "a.txt", entries[0].Name)
	require.Equal(t, uint32(0), entries[0].Size)

	require.NoError(t, v.Delete("a.txt"))
	_, err = v.Stat("a.txt")
	require.ErrorIs(t, err, fatfs.ErrNoSuchFile)

	require.Len(t, v.List(), 1)
}

func TestCreateRootFull(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-full", 4)
	defer v.Unmount()

	for i := 0; i < fatfs.MaxFiles; i++ {
		require.NoError(t, v.Create(shortName(i)))
	}

	err := v.Create("overflow")
	require.ErrorIs(t, err, fatfs.ErrFull)
}

func shortName(i int) string {
	return string(rune('a'+i%26)) + string(rune('A'+(i/26)%26))
}

func TestWriteReadRoundTrip(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-c", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("data.bin"))
	fd, err := v.Open("data.bin")
	require.NoError(t, err)

	payload := make([]byte, fatfs.BlockSize*2+17)
	for i := range payload {
		payload[i] = byte(i)
	}

	n, err := v.Write(fd, payload)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)

	require.NoError(t, v.Lseek(fd, 0))

	out := make([]byte, len(payload))
	n, err = v.Read(fd, out)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.Equal(t, payload, out)

	size, err := v.Stat("data.bin")
	require.NoError(t, err)
	require.Equal(t, uint32(len(payload)), size)

	require.NoError(t, v.Close(fd))
}

func TestWriteExhaustsFreeBlocks(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-d", 3)
	defer v.Unmount()

	require.NoError(t, v.Create("big.bin"))
	fd, err := v.Open("big.bin")
	require.NoError(t, err)

	// dataBlocks=3 gives 2 usable blocks; a third block's worth overflows.
	payload := make([]byte, fatfs.BlockSize*3)
	n, err := v.Write(fd, payload)
	require.ErrorIs(t, err, fatfs.ErrNoSpace)
	require.Equal(t, fatfs.BlockSize*2, n)
}

func TestDeleteBusyWhileOpen(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-e", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("open.txt"))
	fd, err := v.Open("open.txt")
	require.NoError(t, err)

	err = v.Delete("open.txt")
	require.ErrorIs(t, err, fatfs.ErrBusy)

	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Delete("open.txt"))
}

func TestUnmountBusyWhileOpen(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-f", 4)

	require.NoError(t, v.Create("f.txt"))
	fd, err := v.Open("f.txt")
	require.NoError(t, err)

	err = v.Unmount()
	require.ErrorIs(t, err, fatfs.ErrBusy)

	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Unmount())
}

func TestLseekBeyondEndFails(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-g", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("g.txt"))
	fd, err := v.Open("g.txt")
	require.NoError(t, err)

	err = v.Lseek(fd, 1)
	require.ErrorIs(t, err, fatfs.ErrBadOffset)

	err = v.Lseek(fd, 0)
	require.NoError(t, err)
}

func TestOpenFileTableExhaustion(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-h", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("h.txt"))

	for i := 0; i < fatfs.MaxOpenFiles; i++ {
		_, err := v.Open("h.txt")
		require.NoError(t, err)
	}

	_, err := v.Open("h.txt")
	require.ErrorIs(t, err, fatfs.ErrTooManyOpen)
}

func TestMountRejectsBadSignature(t *testing.T) {
	dev := newMemDevice(4)
	_, err := fatfs.Mount("vol-bad", dev)
	require.ErrorIs(t, err, fatfs.ErrMountFailure)
}
