//go:build !linux

package blockfs

import (
	"fmt"

	"github.com/diskfs/go-blockfs/blockdev"
)

func openDevice(path string) (*blockdev.Device, error) {
	return nil, fmt.Errorf("raw block device %s not supported on this platform; use a disk image file", path)
}
