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
package main

import (
	"fmt"
	"os"

	"github.com/ecs150fs/ecs150fs/cmd/cmd"
	"github.com/ecs150fs/ecs150fs/internal/env"
)

func main() {
	printLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// The banner goes to stderr so cat/extract pipelines and the exact
// info/ls outputs on stdout stay clean.
func printLogo() {
	fmt.Fprintln(os.Stderr, " ___ ___ ___ _ ____ _  __ ___ ___")
	fmt.Fprintln(os.Stderr, "| -_|  _|_ -| |  _| || ||  _|_ -|")
	fmt.Fprintln(os.Stderr, "|___|___|___|_|___|_____||_| |___|")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "FAT-style virtual disk filesystem tool")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Version:    %s\n", env.Version)
	fmt.Fprintf(os.Stderr, "Commit:     %s\n", env.CommitHash)
	fmt.Fprintf(os.Stderr, "Build Time: %s\n", env.BuildTime)
	fmt.Fprintln(os.Stderr)
}
