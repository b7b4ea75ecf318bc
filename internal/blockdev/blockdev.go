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

// Package blockdev implements the block-device collaborator that fatfs.Mount
// expects: open/close a backing image, read/write one fixed-size block by
// index, report the device's block count.
package blockdev

import (
	"fmt"
	"io"
	"os"
)

// BlockSize is the fixed block granularity every Device reads and writes.
const BlockSize = 4096

// Device is the block device contract consumed by the fatfs engine.
type Device interface {
	io.Closer
	ReadBlock(index uint16, buf []byte) error
	WriteBlock(index uint16, buf []byte) error
	BlockCount() uint16
}

// fileDevice is the default Device: a plain image file, block-addressed via
// ReadAt/WriteAt, with an advisory exclusive lock held for the mount's
// lifetime on platforms that support flock (see lock_unix.go).
type fileDevice struct {
	f      *os.File
	blocks uint16
	locked bool
}

// Open opens path as a block device. create sizes a brand-new image to
// totalBlocks blocks of zero bytes; otherwise the device's block count is
// derived from the file's current size. A bare Windows drive spec is
// accepted and normalized to its raw volume form.
func Open(path string, create bool, totalBlocks uint16) (Device, error) {
	path = normalizeVolumePath(path)

	flag := os.O_RDWR
	if create {
		flag |= os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, fmt.Errorf("blockdev: open %q: %w", path, err)
	}

	dev := &fileDevice{f: f}

	if create {
		size := int64(totalBlocks) * BlockSize
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, fmt.Errorf("blockdev: truncate %q: %w", path, err)
		}
		dev.blocks = totalBlocks
	} else {
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("blockdev: stat %q: %w", path, err)
		}
		if fi.Size()%BlockSize != 0 {
			f.Close()
			return nil, fmt.Errorf("blockdev: %q size %d is not a multiple of %d", path, fi.Size(), BlockSize)
		}
		dev.blocks = uint16(fi.Size() / BlockSize)
	}

	locked, err := tryLock(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("blockdev: %q is already mounted: %w", path, err)
	}
	dev.locked = locked

	return dev, nil
}

func (d *fileDevice) ReadBlock(index uint16, buf []byte) error {
	if len(buf) != BlockSize {
		return fmt.Errorf("blockdev: buffer must be exactly %d bytes", BlockSize)
	}
	_, err := d.f.ReadAt(buf, int64(index)*BlockSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("blockdev: read block %d: %w", index, err)
	}
	return nil
}

func (d *fileDevice) WriteBlock(index uint16, buf []byte) error {
	if len(buf) != BlockSize {
		return fmt.Errorf("blockdev: buffer must be exactly %d bytes", BlockSize)
	}
	if _, err := d.f.WriteAt(buf, int64(index)*BlockSize); err != nil {
		return fmt.Errorf("blockdev: write block %d: %w", index, err)
	}
	return nil
}

func (d *fileDevice) BlockCount() uint16 {
	return d.blocks
}

func (d *fileDevice) Close() error {
	if d.locked {
		unlock(d.f)
	}
	return d.f.Close()
}
