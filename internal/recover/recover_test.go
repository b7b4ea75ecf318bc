package recover_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/ecs150fs/ecs150fs/internal/recover"
	"github.com/ecs150fs/ecs150fs/pkg/dfxml"
	"github.com/stretchr/testify/require"
)

// memDevice is a minimal in-memory blockdev.Device for exercising recover
// without a real image file on disk.
type memDevice struct {
	blocks [][]byte
}

func newMemDevice(numBlocks uint16) *memDevice {
	blocks := make([][]byte, numBlocks)
	for i := range blocks {
		blocks[i] = make([]byte, fatfs.BlockSize)
	}
	return &memDevice{blocks: blocks}
}

func (d *memDevice) ReadBlock(index uint16, buf []byte) error {
	if int(index) >= len(d.blocks) {
		return fmt.Errorf("memdev: block %d out of range", index)
	}
	copy(buf, d.blocks[index])
	return nil
}

func (d *memDevice) WriteBlock(index uint16, buf []byte) error {
	if int(index) >= len(d.blocks) {
		return fmt.Errorf("memdev: block %d out of range", index)
	}
	copy(d.blocks[index], buf)
	return nil
}

func (d *memDevice) BlockCount() uint16 { return uint16(len(d.blocks)) }
func (d *memDevice) Close() error       { return nil }

func mustFormatAndMount(t *testing.T, path string, dataBlocks uint16) (*fatfs.Volume, *memDevice) {
	t.Helper()
	fatBlocks := uint16(fatfs.FATBlocksNeeded(dataBlocks))
	total := 1 + fatBlocks + 1 + dataBlocks
	dev := newMemDevice(total)

	v, err := fatfs.FormatAndMount(path, dev, dataBlocks)
	require.NoError(t, err)
	return v, dev
}

// fakePNG builds a payload that starts with the PNG magic and carries an
// IEND trailer plus its four CRC bytes, so the carver can both spot and
// bound it.
func fakePNG(body []byte) []byte {
	p := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	p = append(p, body...)
	p = append(p, []byte("IEND")...)
	return append(p, 0xAA, 0xBB, 0xCC, 0xDD)
}

func TestScanCarvesDeletedFile(t *testing.T) {
	v, dev := mustFormatAndMount(t, "recover-vol-a", 6)
	defer v.Unmount()

	payload := fakePNG([]byte("not really chunks, but carvable"))

	require.NoError(t, v.Create("pic.png"))
	fd, err := v.Open("pic.png")
	require.NoError(t, err)
	_, err = v.Write(fd, payload)
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Delete("pic.png"))

	dumpDir := t.TempDir()
	reportPath := filepath.Join(dumpDir, "report.xml")

	found, err := recover.Scan("recover-vol-a.img", v, dev, recover.Options{
		DumpDir:    dumpDir,
		ReportFile: reportPath,
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, uint64(len(payload)), found[0].Size)

	carved, err := os.ReadFile(filepath.Join(dumpDir, found[0].Name))
	require.NoError(t, err)
	require.Equal(t, payload, carved)
}

func TestScanReportRoundTrips(t *testing.T) {
	v, dev := mustFormatAndMount(t, "recover-vol-b", 6)
	defer v.Unmount()

	require.NoError(t, v.Create("doc.pdf"))
	fd, err := v.Open("doc.pdf")
	require.NoError(t, err)
	_, err = v.Write(fd, []byte("%PDF-1.4 pretend content %%EOF"))
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Delete("doc.pdf"))

	reportPath := filepath.Join(t.TempDir(), "report.xml")
	found, err := recover.Scan("recover-vol-b.img", v, dev, recover.Options{
		ReportFile: reportPath,
	})
	require.NoError(t, err)
	require.Len(t, found, 1)

	f, err := os.Open(reportPath)
	require.NoError(t, err)
	defer f.Close()

	rep, err := dfxml.Read(f)
	require.NoError(t, err)
	require.Len(t, rep.Files, 1)
	require.Equal(t, found[0].Name, rep.Files[0].Filename)
	require.Equal(t, found[0].Size, rep.Files[0].FileSize)
	require.Equal(t, uint64(found[0].StartBlock)*fatfs.BlockSize, rep.Files[0].Run.ImgOffset)
}

func TestScanFindsNothingOnCleanVolume(t *testing.T) {
	v, dev := mustFormatAndMount(t, "recover-vol-c", 4)
	defer v.Unmount()

	dumpDir := t.TempDir()
	found, err := recover.Scan("recover-vol-c.img", v, dev, recover.Options{
		DumpDir:    dumpDir,
		ReportFile: filepath.Join(dumpDir, "report.xml"),
	})
	require.NoError(t, err)
	require.Empty(t, found)

	// Only the report itself ends up in the dump directory.
	entries, err := os.ReadDir(dumpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestScanRejectsUnknownExtension(t *testing.T) {
	v, dev := mustFormatAndMount(t, "recover-vol-d", 4)
	defer v.Unmount()

	_, err := recover.Scan("recover-vol-d.img", v, dev, recover.Options{
		Exts: []string{"docx"},
	})
	require.Error(t, err)
}

func TestScanHonorsExtensionFilter(t *testing.T) {
	v, dev := mustFormatAndMount(t, "recover-vol-e", 6)
	defer v.Unmount()

	require.NoError(t, v.Create("pic.png"))
	fd, err := v.Open("pic.png")
	require.NoError(t, err)
	_, err = v.Write(fd, fakePNG([]byte("body")))
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Delete("pic.png"))

	// Filtering to pdf must not pick up the deleted PNG.
	found, err := recover.Scan("recover-vol-e.img", v, dev, recover.Options{
		Exts: []string{"pdf"},
	})
	require.NoError(t, err)
	require.Empty(t, found)
}
