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
package fatfs

// BlockRun describes a contiguous run of physical device blocks in the
// data region.
type BlockRun struct {
	Start  uint16 // physical block index of the run's first block
	Length int    // number of consecutive blocks in the run
}

// FreeRuns returns every maximal run of data blocks not currently
// allocated to any file, as physical device block indices in ascending
// order. delete never zeroes a chain's bytes, only unlinks it, so a free
// block may still hold the content of a just-deleted file; this is what
// lets a recovery pass go looking for it.
func (v *Volume) FreeRuns() []BlockRun {
	var runs []BlockRun
	var cur *BlockRun

	for i := 1; i < len(v.fat.entries); i++ {
		if v.fat.entries[i] != freeEntry {
			continue
		}

		phys := v.dataBlockIndex(uint16(i))
		if cur != nil && cur.Start+uint16(cur.Length) == phys {
			cur.Length++
			continue
		}

		if cur != nil {
			runs = append(runs, *cur)
		}
		cur = &BlockRun{Start: phys, Length: 1}
	}

	if cur != nil {
		runs = append(runs, *cur)
	}
	return runs
}
