//go:build linux || darwin
// +build linux darwin

package blockdev

import (
	"os"

	"golang.org/x/sys/unix"
)

// tryLock takes a non-blocking advisory exclusive lock on f, giving the
// "at most one mount" rule an OS-level guarantee across processes, not
// just within one. Returns false, nil on platforms where this isn't
// wired (none on unix); an error means another process already holds it.
func tryLock(f *os.File) (bool, error) {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return false, err
	}
	return true, nil
}

func unlock(f *os.File) {
	unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
