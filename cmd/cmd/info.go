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

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
	"github.com/ecs150fs/ecs150fs/pkg/fsutil"
	"github.com/spf13/cobra"
)

func DefineInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "info <image>",
		Short:        "Print ECS150-FS superblock and utilization info",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runInfo,
	}
	cmd.Flags().Bool("verbose", false, "also print a human-readable size summary")
	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	v, err := openVolume(args[0])
	if err != nil {
		return err
	}
	defer v.Unmount()

	info := v.Info()

	fmt.Println("FS Info:")
	fmt.Printf("total_blk_count=%d\n", info.TotalBlocks)
	fmt.Printf("fat_blk_count=%d\n", info.FATBlocks)
	fmt.Printf("rdir_blk=%d\n", info.RootIndex)
	fmt.Printf("data_blk=%d\n", info.DataBlockStart)
	fmt.Printf("data_blk_count=%d\n", info.DataBlocks)
	fmt.Printf("fat_free_ratio=%d/%d\n", info.FreeBlocks, info.DataBlocks)
	fmt.Printf("rdir_free_ratio=%d/%d\n", info.FreeRootSlots, fatfs.MaxFiles)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		fmt.Println()
		fmt.Printf("data region: %s free of %s\n",
			fsutil.FormatSize(int64(info.FreeBlocks)*fatfs.BlockSize),
			fsutil.FormatSize(int64(info.DataBlocks)*fatfs.BlockSize))
	}

	return nil
}
