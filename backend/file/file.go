// Package file provides os.File-backed storage for disk images, whether
// plain image files or device nodes.
package file

import (
	"errors"
	"fmt"
	"os"

	"github.com/diskfs/go-blockfs/backend"
)

// Storage is a disk image backed by a file on the host.
type Storage struct {
	f        *os.File
	readOnly bool
}

var _ backend.Storage = (*Storage)(nil)

// Open opens the image or device node at path, which must exist.
// Read-write opens pass O_EXCL, which Linux honours only for block devices:
// a device node already in use fails to open. Regular image files are not
// locked.
func Open(path string, readOnly bool) (*Storage, error) {
	if path == "" {
		return nil, errors.New("must pass device or file name")
	}
	mode := os.O_RDONLY
	if !readOnly {
		mode = os.O_RDWR | os.O_EXCL
	}
	f, err := os.OpenFile(path, mode, 0o600)
	if err != nil {
		return nil, fmt.Errorf("could not open device %s: %w", path, err)
	}
	return &Storage{f: f, readOnly: readOnly}, nil
}

// Create creates an image file of the given size at path, zero-filled.
// The file must not already exist.
func Create(path string, size int64) (*Storage, error) {
	if path == "" {
		return nil, errors.New("must pass device name")
	}
	if size <= 0 {
		return nil, errors.New("must pass valid device size to create")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return nil, fmt.Errorf("could not create device %s: %w", path, err)
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not expand device %s to size %d: %w", path, size, err)
	}
	return &Storage{f: f}, nil
}

// Size reports the current size of the backing file.
func (s *Storage) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *Storage) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *Storage) Close() error {
	return s.f.Close()
}

// Writable returns the read-write view of the backing file.
func (s *Storage) Writable() (backend.WritableFile, error) {
	if s.readOnly {
		return nil, backend.ErrIncorrectOpenMode
	}
	return s.f, nil
}

// Sys exposes the underlying OS file, for ioctl calls on device nodes.
func (s *Storage) Sys() *os.File {
	return s.f
}
