//go:build linux
// +build linux

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

// Package fuse exposes a mounted ECS150-FS Volume as a POSIX directory via
// bazil.org/fuse. Unlike a read-only carve view, this tree supports
// Create/Remove/Read/Write, so every node call round-trips through the
// volume's own operations instead of an in-memory entry map.
package fuse

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"syscall"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
)

// FS serializes every Volume call behind one mutex: Volume itself makes no
// concurrency guarantees, and FUSE dispatches node/handle methods from
// multiple goroutines.
type FS struct {
	v  *fatfs.Volume
	mu sync.Mutex
}

func New(v *fatfs.Volume) *FS {
	return &FS{v: v}
}

func (f *FS) Root() (fusefs.Node, error) {
	return &Dir{fs: f}, nil
}

// Dir is the single flat root directory; ECS150-FS has no subdirectories.
type Dir struct {
	fs *FS
}

func (*Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0755
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	if _, err := d.fs.v.Stat(name); err != nil {
		return nil, translateErr(err)
	}
	return &File{fs: d.fs, name: name}, nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	list := d.fs.v.List()
	dirEntries := make([]fuse.Dirent, len(list))
	for i, e := range list {
		dirEntries[i] = fuse.Dirent{Name: e.Name, Type: fuse.DT_File}
	}
	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name < dirEntries[j].Name
	})
	for i := range dirEntries {
		dirEntries[i].Inode = uint64(i + 1)
	}
	return dirEntries, nil
}

func (d *Dir) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fusefs.Node, fusefs.Handle, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	if err := d.fs.v.Create(req.Name); err != nil {
		return nil, nil, translateErr(err)
	}
	fd, err := d.fs.v.Open(req.Name)
	if err != nil {
		return nil, nil, translateErr(err)
	}

	f := &File{fs: d.fs, name: req.Name}
	return f, &Handle{fs: d.fs, fd: fd}, nil
}

func (d *Dir) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	return translateErr(d.fs.v.Delete(req.Name))
}

// File is a handle-less node; every open allocates a fresh descriptor via
// Open, matching ECS150-FS's 32-slot open-file table semantics.
type File struct {
	fs   *FS
	name string
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	size, err := f.fs.v.Stat(f.name)
	if err != nil {
		return translateErr(err)
	}
	a.Mode = 0644
	a.Size = uint64(size)
	a.Mtime = time.Now()
	return nil
}

func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	fd, err := f.fs.v.Open(f.name)
	if err != nil {
		return nil, translateErr(err)
	}
	return &Handle{fs: f.fs, fd: fd}, nil
}

// Handle is one open-file-table descriptor, carried across Read/Write/Release.
type Handle struct {
	fs *FS
	fd int
}

func (h *Handle) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	if err := h.fs.v.Lseek(h.fd, req.Offset); err != nil {
		return translateErr(err)
	}

	buf := make([]byte, req.Size)
	n, err := h.fs.v.Read(h.fd, buf)
	if err != nil {
		return translateErr(err)
	}
	resp.Data = buf[:n]
	return nil
}

func (h *Handle) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	if err := h.fs.v.Lseek(h.fd, req.Offset); err != nil {
		return translateErr(err)
	}

	n, err := h.fs.v.Write(h.fd, req.Data)
	if err != nil {
		return translateErr(err)
	}
	resp.Size = n
	return nil
}

func (h *Handle) Release(ctx context.Context, req *fuse.ReleaseRequest) error {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	return translateErr(h.fs.v.Close(h.fd))
}

func (h *Handle) Flush(ctx context.Context, req *fuse.FlushRequest) error {
	return nil
}

// translateErr maps the volume's sentinel errors onto the errno FUSE expects
// the kernel to surface to callers.
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fatfs.ErrNoSuchFile):
		return fuse.ENOENT
	case errors.Is(err, fatfs.ErrExists):
		return fuse.Errno(syscall.EEXIST)
	case errors.Is(err, fatfs.ErrBusy):
		return fuse.Errno(syscall.EBUSY)
	case errors.Is(err, fatfs.ErrNoSpace), errors.Is(err, fatfs.ErrFull):
		return fuse.Errno(syscall.ENOSPC)
	case errors.Is(err, fatfs.ErrTooManyOpen):
		return fuse.Errno(syscall.EMFILE)
	case errors.Is(err, fatfs.ErrBadOffset), errors.Is(err, fatfs.ErrInvalidName):
		return fuse.Errno(syscall.EINVAL)
	default:
		return err
	}
}
