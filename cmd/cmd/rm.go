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

	"github.com/spf13/cobra"
)

func DefineRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "rm <image> <name>",
		Short:        "Delete a file from the image",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runRm,
	}
}

func runRm(cmd *cobra.Command, args []string) error {
	v, err := openVolume(args[0])
	if err != nil {
		return err
	}
	defer v.Unmount()

	name := args[1]
	if err := v.Delete(name); err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}

	fmt.Printf("removed %s\n", name)
	return nil
}
