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
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ecs150fs/ecs150fs/internal/recover"
	"github.com/ecs150fs/ecs150fs/pkg/fsutil"
	"github.com/spf13/cobra"
)

func DefineRecoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <image> <out-dir>",
		Short: "Carve deleted files out of an image's free blocks",
		Long: `The 'recover' command scans every data block an ECS150-FS image's FAT
currently lists as free for recognizable file signatures. delete only
unlinks a file's FAT chain; it never zeroes the blocks, so a just-deleted
file's bytes often still sit in what the FAT now calls free space.
Anything recovered is written to out-dir, alongside a DFXML report
describing what was found and where.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runRecover,
	}
	cmd.Flags().StringSlice("ext", nil, "restrict carving to these file extensions (default: all supported formats)")
	cmd.Flags().String("report", "", "path to write the DFXML recovery report (default: <out-dir>/recover_report.xml)")
	return cmd
}

func runRecover(cmd *cobra.Command, args []string) error {
	v, err := openVolume(args[0])
	if err != nil {
		return err
	}
	defer v.Unmount()

	outDir := args[1]
	ext, _ := cmd.Flags().GetStringSlice("ext")
	report, _ := cmd.Flags().GetString("report")
	if report == "" {
		report = filepath.Join(outDir, "recover_report.xml")
	}

	files, err := recover.Scan(args[0], v, v.Device(), recover.Options{
		DumpDir:    outDir,
		ReportFile: report,
		Exts:       ext,
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})
	if err != nil {
		return err
	}

	var total uint64
	for _, f := range files {
		total += f.Size
	}
	fmt.Printf("recovered %d file(s), %s; report written to %s\n",
		len(files), fsutil.FormatSize(int64(total)), report)
	return nil
}
