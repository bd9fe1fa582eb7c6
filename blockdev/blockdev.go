// Package blockdev exposes a disk image as a contiguous array of fixed-size
// blocks. All I/O against the image goes through ReadBlock/WriteBlock in
// whole-block units; the filesystem core never touches byte offsets directly.
package blockdev

import (
	"errors"
	"fmt"

	"github.com/diskfs/go-blockfs/backend"
	"github.com/diskfs/go-blockfs/backend/file"
)

// BlockSize is the size of every addressable block on a device, in bytes.
const BlockSize = 4096

var (
	ErrInvalidBlock   = errors.New("block index out of range")
	ErrBufferSize     = errors.New("buffer must be exactly one block")
	ErrDeviceReadOnly = errors.New("device opened read-only")
)

// Device is a block-addressed view over a backend.Storage. Indices run
// [0, BlockCount()).
type Device struct {
	storage    backend.Storage
	writable   backend.WritableFile
	blockCount int64
}

// New creates a Device over existing storage. The backing size must be a
// whole multiple of BlockSize.
func New(storage backend.Storage) (*Device, error) {
	size, err := storage.Size()
	if err != nil {
		return nil, fmt.Errorf("could not get backing storage size: %w", err)
	}
	if size <= 0 || size%BlockSize != 0 {
		return nil, fmt.Errorf("backing size %d is not a positive multiple of %d", size, BlockSize)
	}
	d := &Device{
		storage:    storage,
		blockCount: size / BlockSize,
	}
	// a read-only backing is fine; WriteBlock will report it
	if w, err := storage.Writable(); err == nil {
		d.writable = w
	}
	return d, nil
}

// NewSized creates a Device over storage whose size the caller already
// knows, for backings like raw block devices where Stat reports no size.
func NewSized(storage backend.Storage, blocks int64) (*Device, error) {
	if blocks <= 0 {
		return nil, errors.New("must pass a positive block count")
	}
	d := &Device{
		storage:    storage,
		blockCount: blocks,
	}
	if w, err := storage.Writable(); err == nil {
		d.writable = w
	}
	return d, nil
}

// Open opens an existing disk image at path for read-write access.
func Open(path string) (*Device, error) {
	storage, err := file.Open(path, false)
	if err != nil {
		return nil, err
	}
	return New(storage)
}

// OpenReadOnly opens an existing disk image at path for read access only.
func OpenReadOnly(path string) (*Device, error) {
	storage, err := file.Open(path, true)
	if err != nil {
		return nil, err
	}
	return New(storage)
}

// Create creates a zeroed disk image of the given number of blocks at path.
// The file must not already exist.
func Create(path string, blocks int64) (*Device, error) {
	if blocks <= 0 {
		return nil, errors.New("must pass a positive block count")
	}
	storage, err := file.Create(path, blocks*BlockSize)
	if err != nil {
		return nil, err
	}
	return New(storage)
}

// BlockCount returns the total number of blocks on the device.
func (d *Device) BlockCount() int64 {
	return d.blockCount
}

// ReadBlock reads block index into dst. dst must be exactly BlockSize bytes.
func (d *Device) ReadBlock(index int64, dst []byte) error {
	if len(dst) != BlockSize {
		return ErrBufferSize
	}
	if index < 0 || index >= d.blockCount {
		return fmt.Errorf("%w: %d of %d", ErrInvalidBlock, index, d.blockCount)
	}
	n, err := d.storage.ReadAt(dst, index*BlockSize)
	if err != nil {
		return fmt.Errorf("could not read block %d: %w", index, err)
	}
	if n != BlockSize {
		return fmt.Errorf("short read of block %d: %d bytes", index, n)
	}
	return nil
}

// WriteBlock writes src to block index. src must be exactly BlockSize bytes.
func (d *Device) WriteBlock(index int64, src []byte) error {
	if len(src) != BlockSize {
		return ErrBufferSize
	}
	if index < 0 || index >= d.blockCount {
		return fmt.Errorf("%w: %d of %d", ErrInvalidBlock, index, d.blockCount)
	}
	if d.writable == nil {
		return ErrDeviceReadOnly
	}
	n, err := d.writable.WriteAt(src, index*BlockSize)
	if err != nil {
		return fmt.Errorf("could not write block %d: %w", index, err)
	}
	if n != BlockSize {
		return fmt.Errorf("short write of block %d: %d bytes", index, n)
	}
	return nil
}

// Close closes the underlying storage.
func (d *Device) Close() error {
	return d.storage.Close()
}
