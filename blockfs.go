// Package blockfs implements methods for creating and manipulating ECS150-FS
// disk images and the filesystems on them.
//
// It manipulates the image bytes directly, whether the image is a plain file
// or a raw block device; nothing is mounted through the operating system.
//
// Some examples:
//
// 1. Create an 8192-block disk image and format it.
//
//	import blockfs "github.com/diskfs/go-blockfs"
//
//	diskImg := "/tmp/disk.img"
//	err := blockfs.Mkfs(diskImg, 8192)
//
// 2. Mount an image, write a file into it, and unmount.
//
//	import blockfs "github.com/diskfs/go-blockfs"
//
//	fs, err := blockfs.Mount("/tmp/disk.img")
//	err = fs.Create("hello.txt")
//	fd, err := fs.Open("hello.txt")
//	n, err := fs.Write(fd, []byte("hello world"))
//	err = fs.Close(fd)
//	err = fs.Umount()
package blockfs

import (
	"errors"
	"fmt"
	"os"

	"github.com/diskfs/go-blockfs/blockdev"
	"github.com/diskfs/go-blockfs/filesystem/ecs150"
)

// Open opens the disk image or block device at path and returns a block
// device over it.
func Open(path string) (*blockdev.Device, error) {
	if path == "" {
		return nil, errors.New("must pass device name")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not stat device %s: %w", path, err)
	}
	mode := info.Mode()
	switch {
	case mode.IsRegular():
		return blockdev.Open(path)
	case mode&os.ModeDevice != 0:
		return openDevice(path)
	default:
		return nil, fmt.Errorf("device %s is neither a block device nor a regular file", path)
	}
}

// Create creates a zeroed disk image of the given number of blocks at path.
// The file must not already exist.
func Create(path string, blocks int64) (*blockdev.Device, error) {
	return blockdev.Create(path, blocks)
}

// Mkfs creates a zeroed image of the given number of blocks at path and
// writes an empty filesystem onto it.
func Mkfs(path string, blocks int64) error {
	dev, err := Create(path, blocks)
	if err != nil {
		return err
	}
	if err := ecs150.Format(dev); err != nil {
		_ = dev.Close()
		return err
	}
	return dev.Close()
}

// Mount opens the image at path and mounts the filesystem on it.
func Mount(path string) (*ecs150.FileSystem, error) {
	dev, err := Open(path)
	if err != nil {
		return nil, err
	}
	fs, err := ecs150.Mount(dev)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}
	return fs, nil
}
