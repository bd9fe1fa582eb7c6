package ecs150

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/diskfs/go-blockfs/util"
)

func getValidDirectory() *directory {
	d := &directory{}
	d.entries[0] = directoryEntry{name: "hello.txt", size: 11, firstDataBlock: 1}
	d.entries[1] = directoryEntry{name: "empty", size: 0, firstDataBlock: fatEOC}
	d.entries[3] = directoryEntry{name: "big.bin", size: 3 * BlockSize, firstDataBlock: 2}
	return d
}

func getValidDirectoryBytes() []byte {
	b := make([]byte, BlockSize)
	writeEntry := func(i int, name string, size uint32, first uint16) {
		e := b[i*dirEntrySize : (i+1)*dirEntrySize]
		copy(e, name)
		e[16] = byte(size)
		e[17] = byte(size >> 8)
		e[18] = byte(size >> 16)
		e[19] = byte(size >> 24)
		e[20] = byte(first)
		e[21] = byte(first >> 8)
	}
	writeEntry(0, "hello.txt", 11, 1)
	writeEntry(1, "empty", 0, fatEOC)
	writeEntry(3, "big.bin", 3*BlockSize, 2)
	return b
}

func TestDirectoryFromBytes(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		d, err := directoryFromBytes(getValidDirectoryBytes())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		valid := getValidDirectory()
		if !d.equal(valid) {
			t.Errorf("mismatched directory:\n%s", cmp.Diff(valid, d, cmp.AllowUnexported(directory{}, directoryEntry{})))
		}
	})
	t.Run("short buffer", func(t *testing.T) {
		if _, err := directoryFromBytes(make([]byte, 512)); err == nil {
			t.Error("expected error for short buffer")
		}
	})
	t.Run("unterminated filename", func(t *testing.T) {
		b := getValidDirectoryBytes()
		copy(b[0:FilenameLen], strings.Repeat("x", FilenameLen))
		_, err := directoryFromBytes(b)
		if !errors.Is(err, ErrCorruptImage) {
			t.Errorf("expected ErrCorruptImage, got %v", err)
		}
	})
}

func TestDirectoryBytes(t *testing.T) {
	b := getValidDirectory().bytes()
	valid := getValidDirectoryBytes()
	if !bytes.Equal(b, valid) {
		_, diffString := util.DumpByteSlicesWithDiffs(valid, b, 32)
		t.Errorf("directory.bytes() mismatched, expected then actual\n%s", diffString)
	}
}

func TestDirectoryFind(t *testing.T) {
	d := getValidDirectory()
	tests := []struct {
		name string
		want int
	}{
		{"hello.txt", 0},
		{"empty", 1},
		{"big.bin", 3},
		{"missing", -1},
		{"hello", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := d.find(tt.name); got != tt.want {
			t.Errorf("find(%q): got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestDirectoryFreeSlots(t *testing.T) {
	d := getValidDirectory()
	if got, want := d.freeSlot(), 2; got != want {
		t.Errorf("freeSlot(): got %d, want %d", got, want)
	}
	if got, want := d.freeCount(), FileMaxCount-3; got != want {
		t.Errorf("freeCount(): got %d, want %d", got, want)
	}

	full := &directory{}
	for i := range full.entries {
		full.entries[i] = directoryEntry{name: "f", firstDataBlock: fatEOC}
	}
	if got := full.freeSlot(); got != -1 {
		t.Errorf("freeSlot() on full directory: got %d, want -1", got)
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"a", true},
		{"hello.txt", true},
		{strings.Repeat("a", FilenameLen-1), true},
		{"", false},
		{strings.Repeat("a", FilenameLen), false},
		{"bad\x00name", false},
	}
	for _, tt := range tests {
		err := validName(tt.name)
		if tt.ok && err != nil {
			t.Errorf("validName(%q): unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidName) {
			t.Errorf("validName(%q): expected ErrInvalidName, got %v", tt.name, err)
		}
	}
}
