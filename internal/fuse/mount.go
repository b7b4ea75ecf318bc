//go:build !linux
// +build !linux

package fuse

import (
	"fmt"

	"github.com/ecs150fs/ecs150fs/internal/fatfs"
)

func Mount(mountpoint string, v *fatfs.Volume) error {
	return fmt.Errorf("FUSE mount is only supported on Linux")
}
