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
	"fmt"

	"github.com/ecs150fs/ecs150fs/internal/blockdev"
)

// rootDir holds the flat 128-entry root directory block in memory.
type rootDir struct {
	entries [MaxFiles]rootEntry
}

func loadRootDir(dev blockdev.Device, rootIndex uint16) (*rootDir, error) {
	buf := make([]byte, BlockSize)
	if err := dev.ReadBlock(rootIndex, buf); err != nil {
		return nil, fmt.Errorf("%w: reading root directory: %v", ErrMountFailure, err)
	}

	var rd rootDir
	for i := 0; i < MaxFiles; i++ {
		rd.entries[i] = decodeRootEntry(buf[i*rootEntrySize : (i+1)*rootEntrySize])
	}
	return &rd, nil
}

func (rd *rootDir) flush(dev blockdev.Device, rootIndex uint16) error {
	buf := make([]byte, BlockSize)
	for i := 0; i < MaxFiles; i++ {
		rd.entries[i].encode(buf[i*rootEntrySize : (i+1)*rootEntrySize])
	}
	if err := dev.WriteBlock(rootIndex, buf); err != nil {
		return fmt.Errorf("%w: writing root directory: %v", ErrIO, err)
	}
	return nil
}

// lookup returns the index of the entry named name, or -1 if no such entry
// exists.
func (rd *rootDir) lookup(name string) int {
	for i := range rd.entries {
		if !rd.entries[i].empty() && rd.entries[i].filename() == name {
			return i
		}
	}
	return -1
}

// freeSlot returns the index of the first empty root entry, or -1 if the
// root directory is full.
func (rd *rootDir) freeSlot() int {
	for i := range rd.entries {
		if rd.entries[i].empty() {
			return i
		}
	}
	return -1
}

// create installs a new zero-length entry named name with no data blocks
// allocated yet (FirstBlock == EOC signals an empty file with no chain).
func (rd *rootDir) create(name string) (int, error) {
	encoded, err := encodeName(name)
	if err != nil {
		return -1, err
	}

	if rd.lookup(name) >= 0 {
		return -1, ErrExists
	}

	slot := rd.freeSlot()
	if slot < 0 {
		return -1, ErrFull
	}

	rd.entries[slot] = rootEntry{Name: encoded, Size: 0, FirstBlock: EOC}
	return slot, nil
}

// delete clears the entry at slot, returning the first block of its chain
// so the caller can free it from the FAT.
func (rd *rootDir) delete(slot int) uint16 {
	head := rd.entries[slot].FirstBlock
	rd.entries[slot] = rootEntry{}
	return head
}

// list returns a snapshot of every occupied entry, ordered by root slot
// index, matching the order ls prints them in.
func (rd *rootDir) list() []rootEntry {
	var out []rootEntry
	for i := range rd.entries {
		if !rd.entries[i].empty() {
			out = append(out, rd.entries[i])
		}
	}
	return out
}
