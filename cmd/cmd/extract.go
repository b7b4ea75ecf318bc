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

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/spf13/cobra"
)

func DefineExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "extract <image> <name> <dest>",
		Short:        "Copy a file out of the image to the host filesystem",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE:         runExtract,
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	v, err := openVolume(args[0])
	if err != nil {
		return err
	}
	defer v.Unmount()

	name, dest := args[1], args[2]

	fd, err := v.Open(name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer v.Close(fd)

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	n, err := io.Copy(out, fatfs.NewFileReadSeeker(v, fd))
	if err != nil {
		return fmt.Errorf("extracting %s: %w", name, err)
	}

	fmt.Printf("extracted %s to %s (%d bytes)\n", name, dest, n)
	return nil
}
