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
	"sync"

	"github.com/ecs150fs/ecs150fs/internal/blockdev"
)

// mountRegistry enforces "at most one live Volume per backing path" inside
// this process. blockdev's flock handles the cross-process half of the
// same rule on platforms that support it.
var mountRegistry = struct {
	mu    sync.Mutex
	paths map[string]bool
}{paths: make(map[string]bool)}

func registerMount(path string) error {
	mountRegistry.mu.Lock()
	defer mountRegistry.mu.Unlock()
	if mountRegistry.paths[path] {
		return fmt.Errorf("%w: %s", ErrAlreadyMount, path)
	}
	mountRegistry.paths[path] = true
	return nil
}

func unregisterMount(path string) {
	mountRegistry.mu.Lock()
	defer mountRegistry.mu.Unlock()
	delete(mountRegistry.paths, path)
}

// Volume is a live mount of an ECS150-FS image. The zero Volume is not
// usable; obtain one via Mount or Format+Mount. All methods are safe to
// call from a single goroutine at a time; Volume does not serialize
// concurrent callers itself.
type Volume struct {
	path string
	dev  blockdev.Device
	sb   *superblock
	fat  *fat
	root *rootDir
	ofd  openFileTable

	// bounce stages every byte-granular transfer against the block-granular
	// device. Allocated once at mount, reused by every Read/Write.
	bounce []byte
}

// Info mirrors the fields the info command prints.
type Info struct {
	TotalBlocks    uint16
	FATBlocks      uint8
	RootIndex      uint16
	DataBlockStart uint16
	DataBlocks     uint16
	FreeBlocks     int
	FreeRootSlots  int
}

// Mount opens the image backed by dev, validates its superblock against
// dev's reported block count, and loads the FAT and root directory into
// memory. path identifies the backing device for the single-mount
// registry; it need not be a filesystem path, only a stable key.
func Mount(path string, dev blockdev.Device) (*Volume, error) {
	if err := registerMount(path); err != nil {
		return nil, err
	}

	v, err := mountLocked(path, dev)
	if err != nil {
		unregisterMount(path)
		return nil, err
	}
	return v, nil
}

func mountLocked(path string, dev blockdev.Device) (*Volume, error) {
	buf := make([]byte, BlockSize)
	if err := dev.ReadBlock(0, buf); err != nil {
		return nil, fmt.Errorf("%w: reading superblock: %v", ErrMountFailure, err)
	}

	sb, err := decodeSuperblock(buf)
	if err != nil {
		return nil, err
	}
	if err := sb.validate(dev.BlockCount()); err != nil {
		return nil, err
	}

	fatTable, err := loadFAT(dev, uint16(sb.FATBlocks), sb.DataBlocks)
	if err != nil {
		return nil, err
	}

	root, err := loadRootDir(dev, sb.RootIndex)
	if err != nil {
		return nil, err
	}

	return &Volume{
		path:   path,
		dev:    dev,
		sb:     sb,
		fat:    fatTable,
		root:   root,
		bounce: make([]byte, BlockSize),
	}, nil
}

// Unmount writes the superblock, FAT, and root directory back to the
// device, releases it, and frees the mount registration. It fails with
// ErrBusy if any file is still open. The superblock never changes at
// runtime, but writing it back keeps the mount/unmount protocol symmetric.
func (v *Volume) Unmount() error {
	if v.ofd.anyOpen() {
		return fmt.Errorf("%w: cannot unmount with open files", ErrBusy)
	}

	if err := v.dev.WriteBlock(0, v.sb.encode()); err != nil {
		return fmt.Errorf("%w: writing superblock: %v", ErrIO, err)
	}
	if err := v.fat.flush(v.dev); err != nil {
		return err
	}
	if err := v.root.flush(v.dev, v.sb.RootIndex); err != nil {
		return err
	}

	unregisterMount(v.path)
	v.bounce = nil
	return v.dev.Close()
}

// Device returns the block device backing this mount, so callers needing
// block-granular access below the file abstraction (recovery scanning) can
// read it directly without a second, conflicting open.
func (v *Volume) Device() blockdev.Device {
	return v.dev
}

// Info reports the volume's geometry and current utilization.
func (v *Volume) Info() Info {
	return Info{
		TotalBlocks:    v.sb.TotalBlocks,
		FATBlocks:      v.sb.FATBlocks,
		RootIndex:      v.sb.RootIndex,
		DataBlockStart: v.sb.DataStart,
		DataBlocks:     v.sb.DataBlocks,
		FreeBlocks:     v.fat.freeCount(),
		FreeRootSlots:  v.countFreeRootSlots(),
	}
}

func (v *Volume) countFreeRootSlots() int {
	n := 0
	for i := range v.root.entries {
		if v.root.entries[i].empty() {
			n++
		}
	}
	return n
}

// DirEntry describes one file as reported by List.
type DirEntry struct {
	Name       string
	Size       uint32
	FirstBlock uint16
}

// List returns every file currently in the root directory, in slot order.
func (v *Volume) List() []DirEntry {
	entries := v.root.list()
	out := make([]DirEntry, len(entries))
	for i, e := range entries {
		out[i] = DirEntry{Name: e.filename(), Size: e.Size, FirstBlock: e.FirstBlock}
	}
	return out
}

// Create adds a new, empty file named name to the root directory.
func (v *Volume) Create(name string) error {
	if _, err := v.root.create(name); err != nil {
		return err
	}
	return v.persistRoot()
}

// Delete removes name from the root directory and returns its data blocks
// to the free pool. Fails with ErrBusy if the file is currently open. The
// root block is written through immediately; the freed FAT entries stay
// in memory until unmount.
func (v *Volume) Delete(name string) error {
	slot := v.root.lookup(name)
	if slot < 0 {
		return ErrNoSuchFile
	}
	if v.ofd.countOpenFor(slot) > 0 {
		return fmt.Errorf("%w: %s", ErrBusy, name)
	}

	head := v.root.delete(slot)
	v.fat.freeChain(head)
	return v.persistRoot()
}

// persistRoot writes the root directory back to disk immediately, per the
// write-through policy: every root-changing operation leaves the on-disk
// root directory consistent with memory before returning.
func (v *Volume) persistRoot() error {
	return v.root.flush(v.dev, v.sb.RootIndex)
}

// Stat reports the current size in bytes of the file named name.
func (v *Volume) Stat(name string) (uint32, error) {
	slot := v.root.lookup(name)
	if slot < 0 {
		return 0, ErrNoSuchFile
	}
	return v.root.entries[slot].Size, nil
}

// Open returns a file descriptor for name, positioned at offset 0.
func (v *Volume) Open(name string) (int, error) {
	slot := v.root.lookup(name)
	if slot < 0 {
		return -1, ErrNoSuchFile
	}
	return v.ofd.open(slot)
}

// Close releases fd.
func (v *Volume) Close(fd int) error {
	return v.ofd.close(fd)
}

// Lseek repositions fd's offset to off, which must not exceed the file's
// current size.
func (v *Volume) Lseek(fd int, off int64) error {
	desc, err := v.ofd.get(fd)
	if err != nil {
		return err
	}
	size := int64(v.root.entries[desc.rootSlot].Size)
	if off < 0 || off > size {
		return ErrBadOffset
	}
	desc.offset = off
	return nil
}

// Tell returns fd's current offset.
func (v *Volume) Tell(fd int) (int64, error) {
	desc, err := v.ofd.get(fd)
	if err != nil {
		return 0, err
	}
	return desc.offset, nil
}
