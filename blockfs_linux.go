//go:build linux

package blockfs

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/diskfs/go-blockfs/backend/file"
	"github.com/diskfs/go-blockfs/blockdev"
)

// openDevice opens a raw block device. The kernel reports no size through
// Stat for device nodes, so the size comes from sysfs (in 512-byte sectors,
// per the kernel ABI) and the logical sector size from an ioctl.
func openDevice(devPath string) (*blockdev.Device, error) {
	storage, err := file.Open(devPath, false)
	if err != nil {
		return nil, err
	}

	sectorSize, err := unix.IoctlGetInt(int(storage.Sys().Fd()), unix.BLKSSZGET)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("unable to get logical sector size of device %s: %w", devPath, err)
	}
	if sectorSize <= 0 || blockdev.BlockSize%sectorSize != 0 {
		_ = storage.Close()
		return nil, fmt.Errorf("device %s sector size %d does not divide block size %d", devPath, sectorSize, blockdev.BlockSize)
	}

	devSizePath := fmt.Sprintf("/sys/class/block/%s/size", path.Base(devPath))
	sizeBytes, err := os.ReadFile(devSizePath)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("could not get size of device %s from kernel: %w", devPath, err)
	}
	sectors, err := strconv.ParseInt(strings.TrimSuffix(string(sizeBytes), "\n"), 10, 64)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("invalid device size %q: %w", string(sizeBytes), err)
	}
	size := sectors * 512
	if size == 0 || size%blockdev.BlockSize != 0 {
		_ = storage.Close()
		return nil, fmt.Errorf("device %s size %d is not a positive multiple of %d", devPath, size, blockdev.BlockSize)
	}
	return blockdev.NewSized(storage, size/blockdev.BlockSize)
}
