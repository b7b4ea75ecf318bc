//go:build !linux && !darwin
// +build !linux,!darwin

package blockdev

import "os"

// tryLock is a no-op on platforms without flock; single-mount enforcement
// falls back to fatfs's in-process registry only.
func tryLock(f *os.File) (bool, error) {
	return false, nil
}

func unlock(f *os.File) {}
