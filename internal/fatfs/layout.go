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

// Package fatfs implements the ECS150-FS on-disk layout: a superblock, a
// 16-bit file allocation table, a flat 128-entry root directory, and a
// bounce-buffered I/O engine walking FAT chains. It never opens a file on
// its own; every Volume is mounted over a caller-supplied blockdev.Device.
package fatfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// BlockSize is the fixed size in bytes of every block on an ECS150-FS device.
	BlockSize = 4096

	// MaxFilenameLen is the size in bytes of a root entry's filename field,
	// including the NUL terminator (so at most MaxFilenameLen-1 usable bytes).
	MaxFilenameLen = 16

	// MaxFiles is the fixed capacity of the root directory.
	MaxFiles = 128

	// MaxOpenFiles is the fixed capacity of the open-file table.
	MaxOpenFiles = 32

	// EOC marks the end of a FAT chain.
	EOC uint16 = 0xFFFF

	// freeEntry marks a FAT slot with no associated data block.
	freeEntry uint16 = 0x0000

	rootEntrySize = 32
)

var signature = [8]byte{'E', 'C', 'S', '1', '5', '0', 'F', 'S'}

// superblock mirrors the exact byte layout of block 0: signature,
// geometry fields, then zero padding to BlockSize.
type superblock struct {
	Signature   [8]byte
	TotalBlocks uint16
	RootIndex   uint16
	DataStart   uint16
	DataBlocks  uint16
	FATBlocks   uint8
}

func (s *superblock) encode() []byte {
	buf := make([]byte, BlockSize)
	copy(buf[0:8], s.Signature[:])
	binary.LittleEndian.PutUint16(buf[8:10], s.TotalBlocks)
	binary.LittleEndian.PutUint16(buf[10:12], s.RootIndex)
	binary.LittleEndian.PutUint16(buf[12:14], s.DataStart)
	binary.LittleEndian.PutUint16(buf[14:16], s.DataBlocks)
	buf[16] = s.FATBlocks
	return buf
}

func decodeSuperblock(buf []byte) (*superblock, error) {
	if len(buf) < BlockSize {
		return nil, fmt.Errorf("%w: short superblock read", ErrMountFailure)
	}

	var s superblock
	copy(s.Signature[:], buf[0:8])
	if !bytes.Equal(s.Signature[:], signature[:]) {
		return nil, fmt.Errorf("%w: bad signature", ErrMountFailure)
	}
	s.TotalBlocks = binary.LittleEndian.Uint16(buf[8:10])
	s.RootIndex = binary.LittleEndian.Uint16(buf[10:12])
	s.DataStart = binary.LittleEndian.Uint16(buf[12:14])
	s.DataBlocks = binary.LittleEndian.Uint16(buf[14:16])
	s.FATBlocks = buf[16]
	return &s, nil
}

// validate checks the geometry invariants against a block device that
// reports deviceBlocks total blocks.
func (s *superblock) validate(deviceBlocks uint16) error {
	fatBlocks := uint16(s.FATBlocks)

	if 1+fatBlocks+1+s.DataBlocks != s.TotalBlocks {
		return fmt.Errorf("%w: geometry equation violated", ErrMountFailure)
	}
	if s.RootIndex != 1+fatBlocks {
		return fmt.Errorf("%w: root_index mismatch", ErrMountFailure)
	}
	if s.DataStart != s.RootIndex+1 {
		return fmt.Errorf("%w: data_start mismatch", ErrMountFailure)
	}
	if s.TotalBlocks != deviceBlocks {
		return fmt.Errorf("%w: total_blocks does not match device size", ErrMountFailure)
	}
	return nil
}

// rootEntry mirrors one 32-byte slot of the root directory block.
type rootEntry struct {
	Name       [MaxFilenameLen]byte
	Size       uint32
	FirstBlock uint16
}

func (e *rootEntry) empty() bool {
	return e.Name[0] == 0
}

func (e *rootEntry) filename() string {
	n := bytes.IndexByte(e.Name[:], 0)
	if n < 0 {
		n = len(e.Name)
	}
	return string(e.Name[:n])
}

func (e *rootEntry) encode(buf []byte) {
	copy(buf[0:MaxFilenameLen], e.Name[:])
	binary.LittleEndian.PutUint32(buf[16:20], e.Size)
	binary.LittleEndian.PutUint16(buf[20:22], e.FirstBlock)
}

func decodeRootEntry(buf []byte) rootEntry {
	var e rootEntry
	copy(e.Name[:], buf[0:MaxFilenameLen])
	e.Size = binary.LittleEndian.Uint32(buf[16:20])
	e.FirstBlock = binary.LittleEndian.Uint16(buf[20:22])
	return e
}

func encodeName(name string) ([MaxFilenameLen]byte, error) {
	var out [MaxFilenameLen]byte
	if len(name) == 0 || len(name) >= MaxFilenameLen {
		return out, ErrInvalidName
	}
	copy(out[:], name)
	return out, nil
}
