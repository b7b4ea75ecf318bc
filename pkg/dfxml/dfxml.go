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

// Package dfxml reads and writes a minimal DFXML (Digital Forensics XML)
// document indexing files carved out of a disk image: who produced the
// report, which image it describes, and one byte run per recovered file.
package dfxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"runtime"
)

// Report is the index of one recovery pass over a single image.
type Report struct {
	XMLName xml.Name `xml:"dfxml"`
	Version string   `xml:"version,attr"`
	Creator Creator  `xml:"creator"`
	Source  Source   `xml:"source"`
	Files   []File   `xml:"fileobject"`
}

// Creator identifies the program that produced the report and where it ran.
type Creator struct {
	Package string `xml:"package"`
	Version string `xml:"version"`
	OS      string `xml:"execution_environment>os_sysname"`
	Arch    string `xml:"execution_environment>arch"`
}

// Source describes the image the recovery pass scanned.
type Source struct {
	ImageFilename string `xml:"image_filename"`
	SectorSize    int    `xml:"sectorsize"`
	ImageSize     uint64 `xml:"image_size"`
}

// File records one recovered file and the byte run locating it in the image.
type File struct {
	Filename string  `xml:"filename"`
	FileSize uint64  `xml:"filesize"`
	Run      ByteRun `xml:"byte_runs>byte_run"`
}

// ByteRun is an absolute byte range within the scanned image.
type ByteRun struct {
	ImgOffset uint64 `xml:"img_offset,attr"`
	Length    uint64 `xml:"len,attr"`
}

// NewCreator fills the Creator block for this build and platform.
func NewCreator(pkg, version string) Creator {
	return Creator{
		Package: pkg,
		Version: version,
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// Write serializes rep to w as an indented XML document.
func Write(w io.Writer, rep *Report) error {
	if rep.Version == "" {
		rep.Version = "1.0"
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("dfxml: encoding report: %w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// Read parses a report previously produced by Write.
func Read(r io.Reader) (*Report, error) {
	var rep Report
	if err := xml.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("dfxml: decoding report: %w", err)
	}
	return &rep, nil
}
