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

	"github.com/ecs150fs/ecs150fs/internal/fuse"
	"github.com/spf13/cobra"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <image> <mountpoint>",
		Short: "Mount an ECS150-FS image as a POSIX directory",
		Long: `The 'mount' command exposes every file in an ECS150-FS image under
mountpoint via FUSE. Reads, writes, creates and deletes made through the
mountpoint go straight through to the underlying volume; unmount with
fusermount -u (or Ctrl-C) to flush and release the image.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runMount,
	}
	cmd.Flags().Bool("mmap", false, "back the image with a writable memory mapping (Linux/macOS only)")
	return cmd
}

func runMount(cmd *cobra.Command, args []string) error {
	useMmap, _ := cmd.Flags().GetBool("mmap")

	v, err := openVolumeDev(args[0], useMmap)
	if err != nil {
		return err
	}
	defer v.Unmount()

	mountpoint := args[1]
	fmt.Printf("mounting %s at %s (ctrl-c to unmount)\n", args[0], mountpoint)
	return fuse.Mount(mountpoint, v)
}
