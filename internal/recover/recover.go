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

// Package recover carves files out of an ECS150FS image's free data
// blocks. Delete only unlinks a FAT chain and clears a root slot; it
// never zeroes the bytes, so a just-deleted file's content still sits in
// the blocks the FAT now calls free. Every file on this filesystem
// starts at a block boundary, which reduces carving to testing the head
// of each free block for a known signature and reading forward from a
// match.
package recover

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ecs150fs/ecs150fs/internal/blockdev"
	"github.com/ecs150fs/ecs150fs/internal/env"
	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/ecs150fs/ecs150fs/pkg/dfxml"
	"github.com/ecs150fs/ecs150fs/pkg/fsutil"
)

// Options controls a recovery pass.
type Options struct {
	DumpDir    string   // directory carved files are written to; empty skips dumping
	ReportFile string   // DFXML index path; empty skips the report
	Exts       []string // restrict carving to these extensions; empty means all known
	Logger     *slog.Logger
}

// CarvedFile describes one file recovered from the free blocks.
type CarvedFile struct {
	Name       string
	StartBlock uint16 // physical device block the file begins at
	Size       uint64
}

// signature describes one carvable format: the magic a free block's head
// must start with, and the trailer (plus tail bytes after it) that ends
// the file where the format defines one.
type signature struct {
	ext     string
	magic   []byte
	trailer []byte
	tail    int
}

var signatures = []signature{
	{ext: "jpg", magic: []byte{0xFF, 0xD8, 0xFF}, trailer: []byte{0xFF, 0xD9}},
	{ext: "png", magic: []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, trailer: []byte("IEND"), tail: 4},
	{ext: "zip", magic: []byte("PK\x03\x04"), trailer: []byte("PK\x05\x06"), tail: 18},
	{ext: "pdf", magic: []byte("%PDF-"), trailer: []byte("%%EOF")},
}

func signaturesFor(exts []string) ([]signature, error) {
	if len(exts) == 0 {
		return signatures, nil
	}

	var out []signature
	for _, e := range exts {
		found := false
		for _, s := range signatures {
			if s.ext == e {
				out = append(out, s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("recover: unknown file extension %q", e)
		}
	}
	return out, nil
}

// Scan walks every free-block run in v, carves out any file whose
// signature it recognizes, optionally dumps each one to opts.DumpDir,
// and writes a DFXML index of the results. imagePath is recorded in the
// report only; v and dev must already be mounted/open and remain so for
// the duration of the call.
func Scan(imagePath string, v *fatfs.Volume, dev blockdev.Device, opts Options) ([]CarvedFile, error) {
	sigs, err := signaturesFor(opts.Exts)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.DumpDir != "" {
		if _, err := fsutil.EnsureDir(opts.DumpDir, false); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	runs := v.FreeRuns()

	var found []CarvedFile
	for _, run := range runs {
		data, err := readRun(dev, run)
		if err != nil {
			return found, err
		}

		for _, c := range carveRun(data, sigs) {
			phys := run.Start + uint16(c.block)
			name := fmt.Sprintf("block%05d.%s", phys, c.ext)
			logger.Info("carved file", "name", name, "block", phys, "size", c.size)

			if opts.DumpDir != "" {
				off := c.block * fatfs.BlockSize
				path := filepath.Join(opts.DumpDir, name)
				if err := os.WriteFile(path, data[off:off+int(c.size)], 0644); err != nil {
					return found, fmt.Errorf("recover: dumping %s: %w", name, err)
				}
			}

			found = append(found, CarvedFile{Name: name, StartBlock: phys, Size: c.size})
		}
	}

	if opts.ReportFile != "" {
		if err := writeReport(opts.ReportFile, imagePath, v, found); err != nil {
			return found, err
		}
	}

	logger.Info("recovery pass complete",
		"files", len(found), "runs", len(runs), "elapsed", time.Since(start).Round(time.Millisecond))
	return found, nil
}

// readRun loads one contiguous run of free blocks into memory.
func readRun(dev blockdev.Device, run fatfs.BlockRun) ([]byte, error) {
	data := make([]byte, run.Length*fatfs.BlockSize)
	for i := 0; i < run.Length; i++ {
		buf := data[i*fatfs.BlockSize : (i+1)*fatfs.BlockSize]
		if err := dev.ReadBlock(run.Start+uint16(i), buf); err != nil {
			return nil, fmt.Errorf("recover: reading block %d: %w", run.Start+uint16(i), err)
		}
	}
	return data, nil
}

// carve is one match within a run: the run-relative block the file
// starts at, its carved size, and the matched format's extension.
type carve struct {
	block int
	size  uint64
	ext   string
}

// carveRun scans one run. Only block heads are tested for a magic; a
// match is carved forward to its format's trailer, bounded by the next
// block head that matches any signature. A file whose trailer never
// shows up (the chain's tail was already reused) is carved whole up to
// that bound.
func carveRun(data []byte, sigs []signature) []carve {
	var out []carve
	for b := 0; b*fatfs.BlockSize < len(data); b++ {
		sig := matchHead(data[b*fatfs.BlockSize:], sigs)
		if sig == nil {
			continue
		}

		end := b + 1
		for ; end*fatfs.BlockSize < len(data); end++ {
			if matchHead(data[end*fatfs.BlockSize:], sigs) != nil {
				break
			}
		}

		window := data[b*fatfs.BlockSize : min(end*fatfs.BlockSize, len(data))]
		size := sig.measure(window)
		if size == 0 {
			size = uint64(len(window))
		}

		out = append(out, carve{block: b, size: size, ext: sig.ext})
		b = end - 1
	}
	return out
}

func matchHead(head []byte, sigs []signature) *signature {
	for i := range sigs {
		if bytes.HasPrefix(head, sigs[i].magic) {
			return &sigs[i]
		}
	}
	return nil
}

// measure returns the carved size of a file starting at data[0], or 0 if
// the format's trailer does not occur in data.
func (s signature) measure(data []byte) uint64 {
	idx := bytes.Index(data, s.trailer)
	if idx < 0 {
		return 0
	}

	end := idx + len(s.trailer) + s.tail
	if end > len(data) {
		end = len(data)
	}
	return uint64(end)
}

func writeReport(path, imagePath string, v *fatfs.Volume, files []CarvedFile) error {
	info := v.Info()
	rep := &dfxml.Report{
		Creator: dfxml.NewCreator(env.AppName, env.Version),
		Source: dfxml.Source{
			ImageFilename: imagePath,
			SectorSize:    fatfs.BlockSize,
			ImageSize:     uint64(info.TotalBlocks) * fatfs.BlockSize,
		},
	}
	for _, f := range files {
		rep.Files = append(rep.Files, dfxml.File{
			Filename: f.Name,
			FileSize: f.Size,
			Run: dfxml.ByteRun{
				ImgOffset: uint64(f.StartBlock) * fatfs.BlockSize,
				Length:    f.Size,
			},
		})
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return dfxml.Write(f, rep)
}
