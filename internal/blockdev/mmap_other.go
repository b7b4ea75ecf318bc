//go:build !linux && !darwin
// +build !linux,!darwin

package blockdev

import "fmt"

func OpenMmap(path string) (Device, error) {
	return nil, fmt.Errorf("blockdev: mmap-backed devices are not supported on this platform")
}
