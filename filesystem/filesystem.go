// Package filesystem provides interfaces and constants required for filesystem implementations.
// All interesting implementations are in subpackages, e.g. github.com/diskfs/go-blockfs/filesystem/ecs150
package filesystem

import (
	"errors"
	"io"
)

var (
	ErrNotSupported       = errors.New("method not supported by this filesystem")
	ErrReadonlyFilesystem = errors.New("read-only filesystem")
)

// FileSystem is a reference to a single mounted filesystem on a device.
// File I/O is descriptor-based: Open returns a small integer descriptor that
// the remaining calls take.
type FileSystem interface {
	// Type return the type of filesystem
	Type() Type
	// Create creates an empty file with the given name in the root directory
	Create(name string) error
	// Delete removes the named file and releases its data blocks
	Delete(name string) error
	// Open opens the named file and returns a descriptor for it
	Open(name string) (int, error)
	// Close releases the descriptor
	Close(fd int) error
	// Stat returns the current size of the file the descriptor refers to
	Stat(fd int) (int64, error)
	// Lseek sets the descriptor's offset; offsets up to and including the
	// file size are valid
	Lseek(fd int, offset int64) error
	// Read reads up to len(buf) bytes at the descriptor's offset. A short
	// count with a nil error means end of file was reached.
	Read(fd int, buf []byte) (int, error)
	// Write writes len(buf) bytes at the descriptor's offset, growing the
	// file as needed. A short count with a nil error means the device ran
	// out of free blocks.
	Write(fd int, buf []byte) (int, error)
	// Ls writes one line per file in the root directory to w
	Ls(w io.Writer) error
	// Info writes the filesystem layout and free ratios to w
	Info(w io.Writer) error
	// Umount flushes all metadata and detaches the filesystem. It fails if
	// any descriptor is still open.
	Umount() error
}

// Type represents the type of filesystem this is
type Type int

const (
	// TypeECS150 is an ECS150-FS flat FAT-style filesystem
	TypeECS150 Type = iota
)
