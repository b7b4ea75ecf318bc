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

import "fmt"

// chainBlockAt walks the FAT chain rooted at head and returns the block
// index holding byte offset blockOffset*BlockSize, i.e. the blockOffset'th
// block in the chain (0-indexed). Returns EOC if the chain is shorter.
func (v *Volume) chainBlockAt(head uint16, blockOffset int) uint16 {
	b := head
	for i := 0; i < blockOffset && b != EOC; i++ {
		b = v.fat.next(b)
	}
	return b
}

// Read copies up to len(p) bytes from fd's current offset into p, advancing
// the offset by the number of bytes read. Reads stop at EOF; a short read
// is not an error.
func (v *Volume) Read(fd int, p []byte) (int, error) {
	desc, err := v.ofd.get(fd)
	if err != nil {
		return 0, err
	}

	entry := &v.root.entries[desc.rootSlot]
	size := int64(entry.Size)
	if desc.offset >= size {
		return 0, nil
	}

	remaining := int(size - desc.offset)
	if remaining > len(p) {
		remaining = len(p)
	}

	read := 0
	for read < remaining {
		blockOffset := int((desc.offset + int64(read)) / BlockSize)
		inBlock := int((desc.offset + int64(read)) % BlockSize)

		block := v.chainBlockAt(entry.FirstBlock, blockOffset)
		if block == EOC {
			break
		}
		if err := v.dev.ReadBlock(v.dataBlockIndex(block), v.bounce); err != nil {
			return read, fmt.Errorf("%w: %v", ErrIO, err)
		}

		n := copy(p[read:remaining], v.bounce[inBlock:])
		read += n
	}

	desc.offset += int64(read)
	return read, nil
}

// Write copies len(p) bytes from p into fd's file starting at its current
// offset, extending the file's block chain and growing its recorded size
// as needed, and advances the offset. If the device runs out of free
// blocks partway through, the bytes already committed stay and their count
// is returned alongside ErrNoSpace. Data blocks are durable when Write
// returns; FAT allocations stay in memory until unmount, while a changed
// root entry (new first block, grown size) is written through immediately.
func (v *Volume) Write(fd int, p []byte) (int, error) {
	desc, err := v.ofd.get(fd)
	if err != nil {
		return 0, err
	}

	entry := &v.root.entries[desc.rootSlot]
	origSize := entry.Size
	origFirst := entry.FirstBlock

	written := 0
	var failure error
	for written < len(p) {
		blockOffset := int((desc.offset + int64(written)) / BlockSize)
		inBlock := int((desc.offset + int64(written)) % BlockSize)

		block, err := v.ensureBlock(entry, blockOffset)
		if err != nil {
			failure = err
			break
		}

		// A full-block overwrite needs no read-modify-write; anything
		// narrower must preserve the block's untouched bytes.
		if inBlock != 0 || len(p)-written < BlockSize {
			if err := v.dev.ReadBlock(v.dataBlockIndex(block), v.bounce); err != nil {
				failure = fmt.Errorf("%w: %v", ErrIO, err)
				break
			}
		}

		n := copy(v.bounce[inBlock:], p[written:])
		if err := v.dev.WriteBlock(v.dataBlockIndex(block), v.bounce); err != nil {
			failure = fmt.Errorf("%w: %v", ErrIO, err)
			break
		}
		written += n
	}

	// A failed write that committed nothing must not leave a zero-size
	// entry pointing at a chain; release the head allocated on its behalf.
	if written == 0 && origFirst == EOC && entry.FirstBlock != EOC {
		v.fat.freeChain(entry.FirstBlock)
		entry.FirstBlock = EOC
	}

	desc.offset += int64(written)
	if desc.offset > int64(entry.Size) {
		entry.Size = uint32(desc.offset)
	}

	if entry.Size != origSize || entry.FirstBlock != origFirst {
		if err := v.persistRoot(); err != nil && failure == nil {
			failure = err
		}
	}
	return written, failure
}

// ensureBlock returns the data block holding blockOffset within entry's
// chain, allocating and linking a new block (and the chain's head, if the
// file was empty) if the chain is not yet that long.
func (v *Volume) ensureBlock(entry *rootEntry, blockOffset int) (uint16, error) {
	if entry.FirstBlock == EOC {
		head, err := v.fat.allocateFree()
		if err != nil {
			return 0, err
		}
		entry.FirstBlock = head
	}

	block := entry.FirstBlock
	for i := 0; i < blockOffset; i++ {
		next := v.fat.next(block)
		if next == EOC {
			var err error
			next, err = v.fat.extend(block)
			if err != nil {
				return 0, err
			}
		}
		block = next
	}
	return block, nil
}

// dataBlockIndex converts a FAT entry index (as used inside chains) into
// an absolute device block index in the data region. The mapping is
// direct: chain-index i is physical block DataStart+i, which is why FAT
// entry 0 is permanently reserved as EOC rather than ever being handed out
// by allocateFree (entry 0 would otherwise address the data region's first
// physical block without any chain ever being able to claim it).
func (v *Volume) dataBlockIndex(fatIndex uint16) uint16 {
	return v.sb.DataStart + fatIndex
}
