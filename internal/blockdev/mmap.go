//go:build linux || darwin
// +build linux darwin

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
package blockdev

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// mmapDevice maps the whole image file into memory read-write and shared,
// so block writes land directly in the page cache and Msync pushes them to
// disk before the mapping is torn down.
type mmapDevice struct {
	f      *os.File
	data   []byte
	blocks uint16
	locked bool
}

// OpenMmap maps path for block-granular read-write access. The file must
// already exist and have a size that is a multiple of BlockSize; OpenMmap
// never creates or resizes the backing file.
func OpenMmap(path string) (Device, error) {
	path = normalizeVolumePath(path)

	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("blockdev: open %q: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("blockdev: stat %q: %w", path, err)
	}

	size := fi.Size()
	if size == 0 || size%BlockSize != 0 {
		f.Close()
		return nil, fmt.Errorf("blockdev: %q size %d is not a positive multiple of %d", path, size, BlockSize)
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("blockdev: mmap %q: %w", path, err)
	}

	locked, err := tryLock(f)
	if err != nil {
		syscall.Munmap(data)
		f.Close()
		return nil, fmt.Errorf("blockdev: %q is already mounted: %w", path, err)
	}

	return &mmapDevice{
		f:      f,
		data:   data,
		blocks: uint16(size / BlockSize),
		locked: locked,
	}, nil
}

func (d *mmapDevice) ReadBlock(index uint16, buf []byte) error {
	if len(buf) != BlockSize {
		return fmt.Errorf("blockdev: buffer must be exactly %d bytes", BlockSize)
	}
	off := int(index) * BlockSize
	copy(buf, d.data[off:off+BlockSize])
	return nil
}

func (d *mmapDevice) WriteBlock(index uint16, buf []byte) error {
	if len(buf) != BlockSize {
		return fmt.Errorf("blockdev: buffer must be exactly %d bytes", BlockSize)
	}
	off := int(index) * BlockSize
	copy(d.data[off:off+BlockSize], buf)
	return nil
}

func (d *mmapDevice) BlockCount() uint16 {
	return d.blocks
}

func (d *mmapDevice) Close() error {
	if d.locked {
		unlock(d.f)
	}

	if err := unix.Msync(d.data, unix.MS_SYNC); err != nil {
		syscall.Munmap(d.data)
		d.f.Close()
		return fmt.Errorf("blockdev: msync: %w", err)
	}
	if err := syscall.Munmap(d.data); err != nil {
		d.f.Close()
		return fmt.Errorf("blockdev: munmap: %w", err)
	}
	return d.f.Close()
}
