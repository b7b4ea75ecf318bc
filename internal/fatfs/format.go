// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package fatfs

import (
	"encoding/binary"
	"fmt"

	"github.com/ecs150fs/ecs150fs/internal/blockdev"
)

// fatEntrySize is the on-disk width of one FAT slot.
const fatEntrySize = 2

// FATBlocksNeeded returns the number of blocks required to hold dataBlocks
// FAT entries (index 0 included; it is reserved but still occupies a slot).
func FATBlocksNeeded(dataBlocks uint16) uint8 {
	entriesPerBlock := BlockSize / fatEntrySize
	total := int(dataBlocks)
	blocks := (total + entriesPerBlock - 1) / entriesPerBlock
	return uint8(blocks)
}

// Format writes a fresh, empty ECS150-FS image to dev: a superblock, an
// all-zero FAT (with entry 0 set to EOC), and an all-zero root directory.
// dataBlocks is the number of blocks to dedicate to file storage; dev must
// already report a block count matching 1 (superblock) + FAT blocks + 1
// (root) + dataBlocks.
func Format(dev blockdev.Device, dataBlocks uint16) error {
	fatBlocks := FATBlocksNeeded(dataBlocks)
	rootIndex := 1 + uint16(fatBlocks)
	dataStart := rootIndex + 1
	totalBlocks := dataStart + dataBlocks

	if dev.BlockCount() != totalBlocks {
		return fmt.Errorf("%w: device has %d blocks, format needs %d", ErrMountFailure, dev.BlockCount(), totalBlocks)
	}

	sb := &superblock{
		Signature:   signature,
		TotalBlocks: totalBlocks,
		RootIndex:   rootIndex,
		DataStart:   dataStart,
		DataBlocks:  dataBlocks,
		FATBlocks:   fatBlocks,
	}
	if err := dev.WriteBlock(0, sb.encode()); err != nil {
		return fmt.Errorf("%w: writing superblock: %v", ErrIO, err)
	}

	buf := make([]byte, BlockSize)
	binary.LittleEndian.PutUint16(buf[0:2], EOC)
	if err := dev.WriteBlock(1, buf); err != nil {
		return fmt.Errorf("%w: writing FAT block 0: %v", ErrIO, err)
	}

	zero := make([]byte, BlockSize)
	for b := uint16(1); b < uint16(fatBlocks); b++ {
		if err := dev.WriteBlock(1+b, zero); err != nil {
			return fmt.Errorf("%w: writing FAT block %d: %v", ErrIO, b, err)
		}
	}

	if err := dev.WriteBlock(rootIndex, zero); err != nil {
		return fmt.Errorf("%w: writing root directory: %v", ErrIO, err)
	}

	return nil
}

// FormatAndMount formats dev with dataBlocks of storage and mounts the
// result, a convenience for callers building an image programmatically.
func FormatAndMount(path string, dev blockdev.Device, dataBlocks uint16) (*Volume, error) {
	if err := Format(dev, dataBlocks); err != nil {
		return nil, err
	}
	return Mount(path, dev)
}
