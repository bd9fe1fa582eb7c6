package testhelper

import (
	"github.com/diskfs/go-blockfs/backend"
)

type reader func(b []byte, offset int64) (int, error)
type writer func(b []byte, offset int64) (int, error)

// FileImpl implements backend.Storage around injectable read/write
// functions, used in tests to stub out disk images and force I/O faults.
// A FileImpl with a nil Writer behaves like a read-only backing.
type FileImpl struct {
	Reader   reader
	Writer   writer
	FileSize int64
}

var _ backend.Storage = (*FileImpl)(nil)

func (f *FileImpl) Size() (int64, error) {
	return f.FileSize, nil
}

// ReadAt read at a particular offset
func (f *FileImpl) ReadAt(b []byte, offset int64) (int, error) {
	return f.Reader(b, offset)
}

// WriteAt write at a particular offset
func (f *FileImpl) WriteAt(b []byte, offset int64) (int, error) {
	return f.Writer(b, offset)
}

func (f *FileImpl) Close() error {
	return nil
}

func (f *FileImpl) Writable() (backend.WritableFile, error) {
	if f.Writer == nil {
		return nil, backend.ErrIncorrectOpenMode
	}
	return f, nil
}
