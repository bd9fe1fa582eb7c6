package ecs150

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// FilenameLen is the width of the on-disk filename field, including the
	// terminating NUL. The longest valid name is FilenameLen-1 bytes.
	FilenameLen = 16
	// FileMaxCount is the number of entries in the root directory.
	FileMaxCount = 128

	dirEntrySize = 32
)

// directoryEntry is one 32-byte slot of the root directory. An entry is
// free iff name is empty (first on-disk byte is NUL).
type directoryEntry struct {
	name           string
	size           uint32
	firstDataBlock uint16
}

func (de *directoryEntry) used() bool {
	return de.name != ""
}

// directory is the in-memory mirror of the single root-directory block.
type directory struct {
	entries [FileMaxCount]directoryEntry
}

func (d *directory) equal(a *directory) bool {
	if (d == nil && a != nil) || (d != nil && a == nil) {
		return false
	}
	if d == nil && a == nil {
		return true
	}
	return d.entries == a.entries
}

// directoryFromBytes loads the root directory from its raw block.
func directoryFromBytes(b []byte) (*directory, error) {
	if len(b) != BlockSize {
		return nil, fmt.Errorf("cannot read root directory from %d bytes, must be exactly %d", len(b), BlockSize)
	}
	d := &directory{}
	for i := 0; i < FileMaxCount; i++ {
		e := b[i*dirEntrySize : (i+1)*dirEntrySize]
		name := e[0:FilenameLen]
		end := 0
		for end < FilenameLen && name[end] != 0 {
			end++
		}
		if end == FilenameLen {
			return nil, fmt.Errorf("%w: unterminated filename in root directory entry %d", ErrCorruptImage, i)
		}
		d.entries[i] = directoryEntry{
			name:           string(name[:end]),
			size:           binary.LittleEndian.Uint32(e[16:20]),
			firstDataBlock: binary.LittleEndian.Uint16(e[20:22]),
		}
	}
	return d, nil
}

// bytes returns the root directory as a full block ready to be written to
// disk. Free entries marshal to all zeroes.
func (d *directory) bytes() []byte {
	b := make([]byte, BlockSize)
	for i, de := range d.entries {
		if !de.used() {
			continue
		}
		e := b[i*dirEntrySize : (i+1)*dirEntrySize]
		copy(e[0:FilenameLen], de.name)
		binary.LittleEndian.PutUint32(e[16:20], de.size)
		binary.LittleEndian.PutUint16(e[20:22], de.firstDataBlock)
	}
	return b
}

// find returns the index of the entry with the given name, or -1.
func (d *directory) find(name string) int {
	for i := range d.entries {
		if d.entries[i].used() && d.entries[i].name == name {
			return i
		}
	}
	return -1
}

// freeSlot returns the index of the first free entry, or -1 if the
// directory is full.
func (d *directory) freeSlot() int {
	for i := range d.entries {
		if !d.entries[i].used() {
			return i
		}
	}
	return -1
}

// freeCount returns the number of free entries.
func (d *directory) freeCount() int {
	count := 0
	for i := range d.entries {
		if !d.entries[i].used() {
			count++
		}
	}
	return count
}

// validName reports whether name fits the on-disk filename field: 1 to
// FilenameLen-1 bytes with no embedded NUL.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if len(name) > FilenameLen-1 {
		return fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidName, name, FilenameLen-1)
	}
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}
	return nil
}
