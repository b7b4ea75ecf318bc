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
	"io"
)

// FileReadSeeker adapts an open file descriptor to io.ReadSeeker, so
// callers needing a standard Go reader (io.Copy and friends) can work
// against a Volume without reimplementing Lseek/Read.
type FileReadSeeker struct {
	v  *Volume
	fd int
}

// NewFileReadSeeker wraps fd, already opened via v.Open, as an
// io.ReadWriteSeeker.
func NewFileReadSeeker(v *Volume, fd int) *FileReadSeeker {
	return &FileReadSeeker{v: v, fd: fd}
}

// Write satisfies io.Writer, so fd can also serve as the destination of a
// plain byte-stream copy.
func (f *FileReadSeeker) Write(p []byte) (int, error) {
	return f.v.Write(f.fd, p)
}

func (f *FileReadSeeker) Read(p []byte) (int, error) {
	n, err := f.v.Read(f.fd, p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (f *FileReadSeeker) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		cur, err := f.v.Tell(f.fd)
		if err != nil {
			return 0, err
		}
		target = cur + offset
	case io.SeekEnd:
		desc, err := f.v.ofd.get(f.fd)
		if err != nil {
			return 0, err
		}
		target = int64(f.v.root.entries[desc.rootSlot].Size) + offset
	default:
		return 0, fmt.Errorf("fatfs: invalid whence %d", whence)
	}

	if err := f.v.Lseek(f.fd, target); err != nil {
		return 0, err
	}
	return target, nil
}
