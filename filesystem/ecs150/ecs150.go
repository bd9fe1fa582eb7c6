// Package ecs150 implements the ECS150-FS flat FAT-style filesystem over a
// 4096-byte block device.
//
// The on-disk layout is fixed: block 0 is the superblock, blocks 1 through
// fatBlockCount hold a packed 16-bit file allocation table, the next block
// is the single root directory of 128 entries, and the remainder is the
// data region. Files are chains of data blocks linked through the FAT and
// terminated by the end-of-chain marker.
//
// The superblock, FAT and root directory are read once at Mount, mutated in
// memory, and written back at Umount. Data blocks are flushed synchronously
// on every Write. At most one image may be mounted at a time.
package ecs150

import (
	"errors"
	"fmt"
	"io"

	"github.com/diskfs/go-blockfs/blockdev"
	"github.com/diskfs/go-blockfs/filesystem"
)

// BlockSize is the filesystem block size. It matches the device block size
// by construction.
const BlockSize = blockdev.BlockSize

var (
	ErrAlreadyMounted    = errors.New("an image is already mounted")
	ErrNotMounted        = errors.New("filesystem is not mounted")
	ErrCorruptImage      = errors.New("corrupt image")
	ErrInvalidName       = errors.New("invalid filename")
	ErrExists            = errors.New("file already exists")
	ErrNotFound          = errors.New("no such file")
	ErrRootDirFull       = errors.New("root directory is full")
	ErrOpenTableFull     = errors.New("open-file table is full")
	ErrInvalidDescriptor = errors.New("invalid file descriptor")
	ErrFileOpen          = errors.New("file is currently open")
	ErrOpenFiles         = errors.New("file descriptors still open")
	ErrInvalidOffset     = errors.New("offset outside file bounds")
)

// mounted guards the at-most-one-mounted-image invariant. The library is
// single-threaded by contract, so a plain flag suffices.
var mounted bool

// FileSystem is a handle to a mounted image. It owns the in-memory mirrors
// of the on-disk metadata, the open-file table, and the device.
type FileSystem struct {
	device *blockdev.Device
	super  *superblock
	fat    *table
	root   *directory
	fds    descriptorTable
}

var _ filesystem.FileSystem = (*FileSystem)(nil)

// Mount reads and verifies the metadata of the image on dev and returns a
// handle to it. On success the filesystem takes ownership of dev; Umount
// closes it. On failure the caller keeps ownership.
func Mount(dev *blockdev.Device) (*FileSystem, error) {
	if mounted {
		return nil, ErrAlreadyMounted
	}

	buf := make([]byte, BlockSize)
	if err := dev.ReadBlock(0, buf); err != nil {
		return nil, fmt.Errorf("could not read superblock: %w", err)
	}
	super, err := superblockFromBytes(buf)
	if err != nil {
		return nil, err
	}
	if err := super.validate(dev.BlockCount()); err != nil {
		return nil, err
	}

	fatBytes := make([]byte, int(super.fatBlockCount)*BlockSize)
	for i := 0; i < int(super.fatBlockCount); i++ {
		if err := dev.ReadBlock(int64(i)+1, fatBytes[i*BlockSize:(i+1)*BlockSize]); err != nil {
			return nil, fmt.Errorf("could not read FAT block %d: %w", i+1, err)
		}
	}
	fat, err := tableFromBytes(fatBytes, super.dataBlockCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	if err := dev.ReadBlock(int64(super.rootDirBlock), buf); err != nil {
		return nil, fmt.Errorf("could not read root directory: %w", err)
	}
	root, err := directoryFromBytes(buf)
	if err != nil {
		return nil, err
	}

	fs := &FileSystem{
		device: dev,
		super:  super,
		fat:    fat,
		root:   root,
	}
	mounted = true
	return fs, nil
}

// Umount writes the FAT and root directory back to the device, closes it,
// and releases the handle. It fails if any descriptor is still open; close
// them first.
func (fs *FileSystem) Umount() error {
	if fs.device == nil {
		return ErrNotMounted
	}
	if n := fs.fds.openCount(); n > 0 {
		return fmt.Errorf("%w: %d", ErrOpenFiles, n)
	}

	fatBytes := fs.fat.bytes(int(fs.super.fatBlockCount) * BlockSize)
	for i := 0; i < int(fs.super.fatBlockCount); i++ {
		if err := fs.device.WriteBlock(int64(i)+1, fatBytes[i*BlockSize:(i+1)*BlockSize]); err != nil {
			return fmt.Errorf("could not write FAT block %d: %w", i+1, err)
		}
	}
	if err := fs.device.WriteBlock(int64(fs.super.rootDirBlock), fs.root.bytes()); err != nil {
		return fmt.Errorf("could not write root directory: %w", err)
	}

	err := fs.device.Close()
	fs.device = nil
	fs.super = nil
	fs.fat = nil
	fs.root = nil
	mounted = false
	if err != nil {
		return fmt.Errorf("could not close device: %w", err)
	}
	return nil
}

// Format writes a fresh, empty filesystem onto dev: a superblock sized to
// the device, a zeroed FAT with entry 0 reserved, and an empty root
// directory. Existing data-region contents are left as found; images
// created with blockdev.Create start zeroed.
func Format(dev *blockdev.Device) error {
	blocks := dev.BlockCount()
	if blocks < 4 {
		return fmt.Errorf("device of %d blocks is too small: need superblock, FAT, root directory and a data block", blocks)
	}
	if blocks > 0xFFFF {
		return fmt.Errorf("device of %d blocks is too large: block counts are 16-bit", blocks)
	}

	// every data block needs a 2-byte FAT entry; sizing the FAT off the
	// pre-FAT block count converges because shrinking the data region
	// never needs more FAT blocks
	fatBlocks := int64(((blocks-2)*2 + BlockSize - 1) / BlockSize)
	dataBlocks := blocks - 2 - fatBlocks

	super := superblock{
		totalBlockCount: uint16(blocks),
		rootDirBlock:    uint16(fatBlocks) + 1,
		dataStartBlock:  uint16(fatBlocks) + 2,
		dataBlockCount:  uint16(dataBlocks),
		fatBlockCount:   uint8(fatBlocks),
	}
	if err := dev.WriteBlock(0, super.bytes()); err != nil {
		return fmt.Errorf("could not write superblock: %w", err)
	}

	fat := table{entries: make([]uint16, dataBlocks)}
	fat.set(0, fatEOC)
	fatBytes := fat.bytes(int(fatBlocks) * BlockSize)
	for i := int64(0); i < fatBlocks; i++ {
		if err := dev.WriteBlock(i+1, fatBytes[i*BlockSize:(i+1)*BlockSize]); err != nil {
			return fmt.Errorf("could not write FAT block %d: %w", i+1, err)
		}
	}

	empty := directory{}
	if err := dev.WriteBlock(int64(super.rootDirBlock), empty.bytes()); err != nil {
		return fmt.Errorf("could not write root directory: %w", err)
	}
	return nil
}

// Type returns the type of filesystem
func (fs *FileSystem) Type() filesystem.Type {
	return filesystem.TypeECS150
}

// Info writes the layout and free ratios of the mounted image to w.
func (fs *FileSystem) Info(w io.Writer) error {
	if fs.device == nil {
		return ErrNotMounted
	}
	_, err := fmt.Fprintf(w, "FS Info:\n"+
		"total_blk_count=%d\n"+
		"fat_blk_count=%d\n"+
		"rdir_blk=%d\n"+
		"data_blk=%d\n"+
		"data_blk_count=%d\n"+
		"fat_free_ratio=%d/%d\n"+
		"rdir_free_ratio=%d/%d\n",
		fs.super.totalBlockCount,
		fs.super.fatBlockCount,
		fs.super.rootDirBlock,
		fs.super.dataStartBlock,
		fs.super.dataBlockCount,
		fs.fat.free(), fs.super.dataBlockCount,
		fs.root.freeCount(), FileMaxCount)
	return err
}

// Ls writes one line per file in the root directory to w.
func (fs *FileSystem) Ls(w io.Writer) error {
	if fs.device == nil {
		return ErrNotMounted
	}
	if _, err := fmt.Fprintf(w, "FS Ls:\n"); err != nil {
		return err
	}
	for i := range fs.root.entries {
		de := &fs.root.entries[i]
		if !de.used() {
			continue
		}
		if _, err := fmt.Fprintf(w, "file: %s, size: %d, data_blk: %d\n", de.name, de.size, de.firstDataBlock); err != nil {
			return err
		}
	}
	return nil
}

// Create creates an empty file with the given name in the root directory.
func (fs *FileSystem) Create(name string) error {
	if fs.device == nil {
		return ErrNotMounted
	}
	if err := validName(name); err != nil {
		return err
	}
	if fs.root.find(name) >= 0 {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}
	slot := fs.root.freeSlot()
	if slot < 0 {
		return ErrRootDirFull
	}
	fs.root.entries[slot] = directoryEntry{
		name:           name,
		size:           0,
		firstDataBlock: fatEOC,
	}
	return nil
}

// Delete removes the named file, releasing its chain back to the FAT. A
// file that is open in any descriptor cannot be deleted.
func (fs *FileSystem) Delete(name string) error {
	if fs.device == nil {
		return ErrNotMounted
	}
	if err := validName(name); err != nil {
		return err
	}
	idx := fs.root.find(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if fs.fds.isOpen(name) {
		return fmt.Errorf("%w: %s", ErrFileOpen, name)
	}
	fs.fat.freeChain(fs.root.entries[idx].firstDataBlock)
	fs.root.entries[idx] = directoryEntry{}
	return nil
}

// Open opens the named file and returns a descriptor with offset 0.
func (fs *FileSystem) Open(name string) (int, error) {
	if fs.device == nil {
		return -1, ErrNotMounted
	}
	if err := validName(name); err != nil {
		return -1, err
	}
	if fs.root.find(name) < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	fd := fs.fds.claim(name)
	if fd < 0 {
		return -1, ErrOpenTableFull
	}
	return fd, nil
}

// Close releases the descriptor.
func (fs *FileSystem) Close(fd int) error {
	if _, err := fs.descriptor(fd); err != nil {
		return err
	}
	fs.fds.release(fd)
	return nil
}

// Stat returns the current size of the file the descriptor refers to.
func (fs *FileSystem) Stat(fd int) (int64, error) {
	d, err := fs.descriptor(fd)
	if err != nil {
		return -1, err
	}
	entry, err := fs.entryOf(d)
	if err != nil {
		return -1, err
	}
	return int64(entry.size), nil
}

// Lseek sets the descriptor's offset. Any offset in [0, size] is valid;
// seeking to exactly size is the append position.
func (fs *FileSystem) Lseek(fd int, offset int64) error {
	d, err := fs.descriptor(fd)
	if err != nil {
		return err
	}
	entry, err := fs.entryOf(d)
	if err != nil {
		return err
	}
	if offset < 0 || offset > int64(entry.size) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidOffset, offset, entry.size)
	}
	d.offset = offset
	return nil
}

// Read reads up to len(buf) bytes from the descriptor's offset into buf and
// advances the offset. Reads are capped at the file size; a short count
// with a nil error means end of file.
func (fs *FileSystem) Read(fd int, buf []byte) (int, error) {
	d, err := fs.descriptor(fd)
	if err != nil {
		return -1, err
	}
	entry, err := fs.entryOf(d)
	if err != nil {
		return -1, err
	}

	offset := d.offset
	remaining := int64(entry.size) - offset
	if remaining > int64(len(buf)) {
		remaining = int64(len(buf))
	}
	if remaining <= 0 || entry.firstDataBlock == fatEOC {
		return 0, nil
	}

	// walk to the block containing the first byte
	curr := entry.firstDataBlock
	for hops := offset / BlockSize; hops > 0; hops-- {
		curr = fs.fat.next(curr)
		if curr == fatEOC {
			return 0, nil
		}
	}

	var bounce [BlockSize]byte
	done := 0
	for remaining > 0 {
		inOff := offset % BlockSize
		take := BlockSize - inOff
		if take > remaining {
			take = remaining
		}
		if err := fs.device.ReadBlock(fs.dataBlock(curr), bounce[:]); err != nil {
			d.offset = offset
			return done, err
		}
		copy(buf[done:done+int(take)], bounce[inOff:inOff+take])
		done += int(take)
		offset += take
		remaining -= take
		if remaining > 0 {
			curr = fs.fat.next(curr)
			if curr == fatEOC {
				break
			}
		}
	}
	d.offset = offset
	return done, nil
}

// Write writes len(buf) bytes from buf at the descriptor's offset, growing
// the chain on demand with first-fit allocation, and advances the offset.
// Data blocks are flushed synchronously; FAT and directory changes stay in
// memory until Umount. A short count with a nil error means the data region
// ran out of free blocks.
func (fs *FileSystem) Write(fd int, buf []byte) (int, error) {
	d, err := fs.descriptor(fd)
	if err != nil {
		return -1, err
	}
	entry, err := fs.entryOf(d)
	if err != nil {
		return -1, err
	}
	if len(buf) == 0 {
		return 0, nil
	}

	offset := d.offset
	count := int64(len(buf))

	// an empty file has no chain yet; claim its first block
	first := entry.firstDataBlock
	allocatedFirst := false
	if first == fatEOC {
		free, ok := fs.fat.firstFree()
		if !ok {
			return 0, nil
		}
		fs.fat.set(free, fatEOC)
		first = free
		allocatedFirst = true
	}

	finish := func(done int, err error) (int, error) {
		if offset > int64(entry.size) {
			entry.size = uint32(offset)
		}
		if entry.size > 0 {
			entry.firstDataBlock = first
		} else if allocatedFirst {
			// nothing was written into the claimed block; give it back
			fs.fat.set(first, 0)
		}
		d.offset = offset
		return done, err
	}

	// walk to the block containing the first byte, extending the chain if
	// the append position sits exactly at a block boundary past its end
	curr := first
	for hops := offset / BlockSize; hops > 0; hops-- {
		next := fs.fat.next(curr)
		if next == fatEOC {
			free, ok := fs.fat.firstFree()
			if !ok {
				return finish(0, nil)
			}
			fs.fat.set(curr, free)
			fs.fat.set(free, fatEOC)
			next = free
		}
		curr = next
	}

	var bounce [BlockSize]byte
	done := 0
	for count > 0 {
		inOff := offset % BlockSize
		put := BlockSize - inOff
		if put > count {
			put = count
		}
		// read-modify-write keeps the untouched bytes of a partial block
		if put < BlockSize {
			if err := fs.device.ReadBlock(fs.dataBlock(curr), bounce[:]); err != nil {
				return finish(done, err)
			}
		}
		copy(bounce[inOff:inOff+put], buf[done:done+int(put)])
		if err := fs.device.WriteBlock(fs.dataBlock(curr), bounce[:]); err != nil {
			return finish(done, err)
		}
		done += int(put)
		offset += put
		count -= put
		if count > 0 {
			next := fs.fat.next(curr)
			if next == fatEOC {
				free, ok := fs.fat.firstFree()
				if !ok {
					return finish(done, nil)
				}
				fs.fat.set(curr, free)
				fs.fat.set(free, fatEOC)
				next = free
			}
			curr = next
		}
	}
	return finish(done, nil)
}

// descriptor validates fd and returns its slot.
func (fs *FileSystem) descriptor(fd int) (*descriptor, error) {
	if fs.device == nil {
		return nil, ErrNotMounted
	}
	if fd < 0 || fd >= OpenMaxCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDescriptor, fd)
	}
	if !fs.fds[fd].used {
		return nil, fmt.Errorf("%w: %d is not open", ErrInvalidDescriptor, fd)
	}
	return &fs.fds[fd], nil
}

// entryOf returns the live root-directory entry a descriptor is bound to.
// Delete refuses open files, so the entry must exist while the descriptor
// is open.
func (fs *FileSystem) entryOf(d *descriptor) (*directoryEntry, error) {
	idx := fs.root.find(d.name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, d.name)
	}
	return &fs.root.entries[idx], nil
}

// dataBlock maps a FAT index to its absolute block index on the device.
func (fs *FileSystem) dataBlock(i uint16) int64 {
	return int64(fs.super.dataStartBlock) + int64(i)
}
