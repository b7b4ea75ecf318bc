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
	"strconv"

	"github.com/ecs150fs/ecs150fs/internal/blockdev"
	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/spf13/cobra"
)

func DefineFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "format <image> <data-blocks>",
		Short:        "Create a fresh ECS150-FS image",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runFormat,
	}
	return cmd
}

func runFormat(cmd *cobra.Command, args []string) error {
	path := args[0]

	dataBlocks, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid data-blocks %q: %w", args[1], err)
	}

	fatBlocks := fatfs.FATBlocksNeeded(uint16(dataBlocks))
	totalBlocks := uint16(1 + uint16(fatBlocks) + 1 + uint16(dataBlocks))

	dev, err := blockdev.Open(path, true, totalBlocks)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	if err := fatfs.Format(dev, uint16(dataBlocks)); err != nil {
		dev.Close()
		return fmt.Errorf("formatting %s: %w", path, err)
	}

	if err := dev.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	fmt.Printf("formatted %s: %d total blocks, %d FAT blocks, %d data blocks\n",
		path, totalBlocks, fatBlocks, dataBlocks)
	return nil
}
