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

// fileDescriptor is one live entry in the open-file table: which root slot
// it refers to and the caller's current byte offset into that file.
type fileDescriptor struct {
	rootSlot int
	offset   int64
	inUse    bool
}

// openFileTable is the fixed-capacity table of currently open files. Unlike
// the root directory, free-slot search and open-count here happen against
// this table, not the root directory, so two descriptors can point at the
// same file concurrently.
type openFileTable struct {
	slots [MaxOpenFiles]fileDescriptor
}

// freeSlot returns the index of an unused descriptor slot, or -1 if the
// table is full.
func (t *openFileTable) freeSlot() int {
	for i := range t.slots {
		if !t.slots[i].inUse {
			return i
		}
	}
	return -1
}

// open installs a new descriptor at offset 0 pointing at rootSlot.
func (t *openFileTable) open(rootSlot int) (int, error) {
	slot := t.freeSlot()
	if slot < 0 {
		return -1, ErrTooManyOpen
	}
	t.slots[slot] = fileDescriptor{rootSlot: rootSlot, offset: 0, inUse: true}
	return slot, nil
}

// close releases fd, making it available for reuse.
func (t *openFileTable) close(fd int) error {
	if fd < 0 || fd >= MaxOpenFiles || !t.slots[fd].inUse {
		return ErrBadFD
	}
	t.slots[fd] = fileDescriptor{}
	return nil
}

// get returns the descriptor for fd, erroring if fd is out of range or not
// open.
func (t *openFileTable) get(fd int) (*fileDescriptor, error) {
	if fd < 0 || fd >= MaxOpenFiles || !t.slots[fd].inUse {
		return nil, ErrBadFD
	}
	return &t.slots[fd], nil
}

// countOpenFor returns how many live descriptors reference rootSlot, used
// to enforce that delete rejects a file that is still open.
func (t *openFileTable) countOpenFor(rootSlot int) int {
	n := 0
	for i := range t.slots {
		if t.slots[i].inUse && t.slots[i].rootSlot == rootSlot {
			n++
		}
	}
	return n
}

// anyOpen reports whether the table has any live descriptor at all, used
// to enforce that unmount rejects a volume with files still open.
func (t *openFileTable) anyOpen() bool {
	for i := range t.slots {
		if t.slots[i].inUse {
			return true
		}
	}
	return false
}
