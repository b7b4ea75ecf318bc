package fatfs_test

import (
	"fmt"

	"github.com/ecs150fs/ecs150fs/internal/blockdev"
)

// memDevice is an in-memory blockdev.Device used only by this package's
// tests, so FAT and root-directory behavior can be exercised without
// touching the filesystem.
type memDevice struct {
	blocks [][]byte
}

func newMemDevice(numBlocks uint16) *memDevice {
	blocks := make([][]byte, numBlocks)
	for i := range blocks {
		blocks[i] = make([]byte, blockdev.BlockSize)
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

func (d *memDevice) BlockCount() uint16 {
	return uint16(len(d.blocks))
}

func (d *memDevice) Close() error {
	return nil
}
