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
package cmd

import (
	"fmt"

	"github.com/ecs150fs/ecs150fs/internal/blockdev"
	"github.com/ecs150fs/ecs150fs/internal/fatfs"
)

// openVolume opens path's backing file as a block device sized to
// whatever it already is, and mounts it. Every command working against
// an existing image goes through this, except mount, which calls
// openVolumeDev directly to pick the backend.
func openVolume(path string) (*fatfs.Volume, error) {
	return openVolumeDev(path, false)
}

func openVolumeDev(path string, useMmap bool) (*fatfs.Volume, error) {
	var (
		dev blockdev.Device
		err error
	)
	if useMmap {
		dev, err = blockdev.OpenMmap(path)
	} else {
		dev, err = blockdev.Open(path, false, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	v, err := fatfs.Mount(path, dev)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("mounting %s: %w", path, err)
	}
	return v, nil
}
