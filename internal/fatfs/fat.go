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

// fat is the whole allocation table held in memory for the mount's
// lifetime. entries has length dataBlocks; entries[0] is reserved and
// always EOC (data block 0 is never used for real file content); entries[i]
// for i>0 is either freeEntry, another index continuing the chain, or EOC.
type fat struct {
	entries   []uint16
	numBlocks uint16 // FAT region size in blocks, needed to flush back
}

// loadFAT reads fatBlocks blocks starting at block index 1 and decodes the
// first dataBlocks entries out of them; any trailing entries in the last
// FAT block are padding and are ignored.
func loadFAT(dev blockdev.Device, fatBlocks uint16, dataBlocks uint16) (*fat, error) {
	entriesPerBlock := BlockSize / 2
	total := int(fatBlocks) * entriesPerBlock

	entries := make([]uint16, total)
	buf := make([]byte, BlockSize)
	for b := uint16(0); b < fatBlocks; b++ {
		if err := dev.ReadBlock(1+b, buf); err != nil {
			return nil, fmt.Errorf("%w: reading FAT block %d: %v", ErrMountFailure, b, err)
		}
		for i := 0; i < entriesPerBlock; i++ {
			entries[int(b)*entriesPerBlock+i] = binary.LittleEndian.Uint16(buf[i*2 : i*2+2])
		}
	}

	if len(entries) < int(dataBlocks) {
		return nil, fmt.Errorf("%w: FAT region too small for %d data blocks", ErrMountFailure, dataBlocks)
	}
	if entries[0] != EOC {
		return nil, fmt.Errorf("%w: FAT entry 0 must be EOC", ErrMountFailure)
	}

	return &fat{entries: entries[:dataBlocks], numBlocks: fatBlocks}, nil
}

// flush writes the FAT back to blocks [1, 1+numBlocks).
func (f *fat) flush(dev blockdev.Device) error {
	entriesPerBlock := BlockSize / 2
	buf := make([]byte, BlockSize)

	for b := uint16(0); b < f.numBlocks; b++ {
		for i := 0; i < entriesPerBlock; i++ {
			idx := int(b)*entriesPerBlock + i
			var v uint16
			if idx < len(f.entries) {
				v = f.entries[idx]
			}
			binary.LittleEndian.PutUint16(buf[i*2:i*2+2], v)
		}
		if err := dev.WriteBlock(1+b, buf); err != nil {
			return fmt.Errorf("%w: writing FAT block %d: %v", ErrIO, b, err)
		}
	}
	return nil
}

// freeCount returns the number of data blocks not currently allocated to
// any file, i.e. entries[1:] equal to freeEntry.
func (f *fat) freeCount() int {
	n := 0
	for i := 1; i < len(f.entries); i++ {
		if f.entries[i] == freeEntry {
			n++
		}
	}
	return n
}

// allocateFree finds a free data block index, marks it EOC, and returns it.
// Returns ErrNoSpace if none remain.
func (f *fat) allocateFree() (uint16, error) {
	for i := 1; i < len(f.entries); i++ {
		if f.entries[i] == freeEntry {
			f.entries[i] = EOC
			return uint16(i), nil
		}
	}
	return 0, ErrNoSpace
}

// next returns the block index following i in its chain, or EOC if i is the
// chain's last block.
func (f *fat) next(i uint16) uint16 {
	return f.entries[i]
}

// extend appends a freshly allocated block to the chain whose current tail
// is at index tail, linking tail -> new block -> EOC.
func (f *fat) extend(tail uint16) (uint16, error) {
	next, err := f.allocateFree()
	if err != nil {
		return 0, err
	}
	f.entries[tail] = next
	return next, nil
}

// freeChain walks the chain starting at head, returning every block in it
// to the free pool.
func (f *fat) freeChain(head uint16) {
	for head != EOC && head != freeEntry {
		next := f.entries[head]
		f.entries[head] = freeEntry
		head = next
	}
}
