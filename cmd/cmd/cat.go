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
	"os"

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/spf13/cobra"
)

func DefineCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "cat <image> <name>...",
		Short:        "Print one or more files' contents to stdout",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE:         runCat,
	}
}

func runCat(cmd *cobra.Command, args []string) error {
	v, err := openVolume(args[0])
	if err != nil {
		return err
	}
	defer v.Unmount()

	for _, name := range args[1:] {
		if err := catOne(v, name); err != nil {
			return err
		}
	}
	return nil
}

func catOne(v *fatfs.Volume, name string) error {
	fd, err := v.Open(name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer v.Close(fd)

	buf := make([]byte, fatfs.BlockSize)
	for {
		n, err := v.Read(fd, buf)
		if n > 0 {
			if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if n == 0 {
			break
		}
	}
	return nil
}
