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
	"strings"

	"github.com/spf13/cobra"
)

func DefineFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "find <image> <prefix>",
		Short:        "List files in an ECS150-FS image whose name starts with prefix",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runFind,
	}
}

func runFind(cmd *cobra.Command, args []string) error {
	v, err := openVolume(args[0])
	if err != nil {
		return err
	}
	defer v.Unmount()

	prefix := args[1]

	matches := 0
	for _, e := range v.List() {
		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		matches++
		fmt.Printf("file: %s, size: %d, data_blk: %d\n", e.Name, e.Size, e.FirstBlock)
	}

	if matches == 0 {
		fmt.Printf("no files match prefix %q\n", prefix)
	}
	return nil
}
