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

import "errors"

// Error taxonomy surfaced by every public Volume operation. Callers compare
// with errors.Is; no operation panics or recovers internally.
var (
	ErrMountFailure  = errors.New("fatfs: mount failure")
	ErrAlreadyMount  = errors.New("fatfs: device already mounted")
	ErrNotMounted    = errors.New("fatfs: not mounted")
	ErrInvalidName   = errors.New("fatfs: invalid filename")
	ErrExists        = errors.New("fatfs: file already exists")
	ErrNoSuchFile    = errors.New("fatfs: no such file")
	ErrFull          = errors.New("fatfs: root directory is full")
	ErrNoSpace       = errors.New("fatfs: no free data blocks")
	ErrTooManyOpen   = errors.New("fatfs: too many open files")
	ErrBadFD         = errors.New("fatfs: bad file descriptor")
	ErrBadOffset     = errors.New("fatfs: offset beyond end of file")
	ErrIO            = errors.New("fatfs: block device I/O error")
	ErrBusy          = errors.New("fatfs: file is open")
)
