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
	"io"
	"os"
	"path/filepath"

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/ecs150fs/ecs150fs/pkg/fsutil"
	"github.com/spf13/cobra"
)

func DefineAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "add <image> <host-path>...",
		Short:        "Create files in the image from host files or directories",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE:         runAdd,
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	v, err := openVolume(args[0])
	if err != nil {
		return err
	}
	defer v.Unmount()

	// Each argument may itself be a directory, expanded to its immediate
	// regular files.
	var hostPaths []string
	for _, arg := range args[1:] {
		paths, err := fsutil.RegularFiles(arg)
		if err != nil {
			return err
		}
		hostPaths = append(hostPaths, paths...)
	}

	for _, hostPath := range hostPaths {
		if err := addOne(v, hostPath); err != nil {
			return err
		}
	}
	return nil
}

func addOne(v *fatfs.Volume, hostPath string) error {
	name := filepath.Base(hostPath)

	if err := v.Create(name); err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	fd, err := v.Open(name)
	if err != nil {
		return fmt.Errorf("opening %s in image: %w", name, err)
	}
	defer v.Close(fd)

	src, err := os.Open(hostPath)
	if err != nil {
		return fmt.Errorf("adding %s: %w", hostPath, err)
	}
	defer src.Close()

	total, err := io.Copy(fatfs.NewFileReadSeeker(v, fd), src)
	if err != nil {
		return fmt.Errorf("adding %s: %w", hostPath, err)
	}

	fmt.Printf("added %s (%d bytes)\n", name, total)
	return nil
}
