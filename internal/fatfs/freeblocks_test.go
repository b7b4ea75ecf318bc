package fatfs_test

import (
	"testing"

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/stretchr/testify/require"
)

func TestFreeRunsAllFreeOnFormat(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-free-a", 5)
	defer v.Unmount()

	// dataBlocks=5 gives 4 usable entries; entry 0 is reserved as EOC and
	// never appears in a free run.
	runs := v.FreeRuns()
	require.Len(t, runs, 1)
	require.Equal(t, 4, runs[0].Length)
}

func TestFreeRunsShrinkAroundAllocatedFile(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-free-b", 5)
	defer v.Unmount()

	require.NoError(t, v.Create("mid.bin"))
	fd, err := v.Open("mid.bin")
	require.NoError(t, err)

	// One block goes to the lowest free FAT entry, at the head of the
	// data region, so the free run reported right after format loses a
	// block.
	payload := make([]byte, fatfs.BlockSize)
	_, err = v.Write(fd, payload)
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))

	runs := v.FreeRuns()
	totalFree := 0
	for _, r := range runs {
		totalFree += r.Length
	}
	require.Equal(t, 3, totalFree)
	require.GreaterOrEqual(t, len(runs), 1)
}

func TestFreeRunsEmptyWhenFull(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-free-c", 3)
	defer v.Unmount()

	require.NoError(t, v.Create("full.bin"))
	fd, err := v.Open("full.bin")
	require.NoError(t, err)

	// dataBlocks=3 gives exactly 2 usable blocks.
	payload := make([]byte, fatfs.BlockSize*2)
	_, err = v.Write(fd, payload)
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))

	require.Empty(t, v.FreeRuns())
}

func TestFreeRunsSurviveDelete(t *testing.T) {
	v, _ := mustFormatAndMount(t, "vol-free-d", 4)
	defer v.Unmount()

	require.NoError(t, v.Create("gone.bin"))
	fd, err := v.Open("gone.bin")
	require.NoError(t, err)

	payload := []byte("recoverable content")
	_, err = v.Write(fd, payload)
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))

	require.NoError(t, v.Delete("gone.bin"))

	runs := v.FreeRuns()
	totalFree := 0
	for _, r := range runs {
		totalFree += r.Length
	}
	require.Equal(t, 3, totalFree)
}
