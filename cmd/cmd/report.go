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

	"github.com/ecs150fs/ecs150fs/pkg/dfxml"
	"github.com/ecs150fs/ecs150fs/pkg/fsutil"
	"github.com/spf13/cobra"
)

func DefineReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "report <report.xml>",
		Short:        "List the files recorded in a prior recover report",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runReport,
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rep, err := dfxml.Read(f)
	if err != nil {
		return fmt.Errorf("report: parsing %s: %w", args[0], err)
	}

	for _, o := range rep.Files {
		fmt.Printf("%s  %s  @img_offset=%d len=%d\n",
			o.Filename, fsutil.FormatSize(int64(o.FileSize)), o.Run.ImgOffset, o.Run.Length)
	}
	fmt.Printf("%d file(s) recorded\n", len(rep.Files))
	return nil
}
