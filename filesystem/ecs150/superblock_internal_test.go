package ecs150

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func getValidSuperblock() *superblock {
	// the layout of an 8192-block image
	return &superblock{
		totalBlockCount: 8192,
		rootDirBlock:    5,
		dataStartBlock:  6,
		dataBlockCount:  8186,
		fatBlockCount:   4,
	}
}

func getValidSuperblockBytes() []byte {
	b := make([]byte, BlockSize)
	copy(b[0:8], "ECS150FS")
	binary.LittleEndian.PutUint16(b[8:10], 8192)
	binary.LittleEndian.PutUint16(b[10:12], 5)
	binary.LittleEndian.PutUint16(b[12:14], 6)
	binary.LittleEndian.PutUint16(b[14:16], 8186)
	b[16] = 4
	return b
}

func TestSuperblockFromBytes(t *testing.T) {
	t.Run("valid superblock", func(t *testing.T) {
		s, err := superblockFromBytes(getValidSuperblockBytes())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		valid := getValidSuperblock()
		if !s.equal(valid) {
			t.Errorf("mismatched superblock:\n%s", cmp.Diff(valid, s, cmp.AllowUnexported(superblock{})))
		}
	})
	t.Run("short buffer", func(t *testing.T) {
		if _, err := superblockFromBytes(make([]byte, 512)); err == nil {
			t.Error("expected error for short buffer")
		}
	})
	t.Run("bad signature", func(t *testing.T) {
		b := getValidSuperblockBytes()
		copy(b[0:8], "ECS151FS")
		_, err := superblockFromBytes(b)
		if !errors.Is(err, ErrCorruptImage) {
			t.Errorf("expected ErrCorruptImage, got %v", err)
		}
	})
}

func TestSuperblockBytes(t *testing.T) {
	b := getValidSuperblock().bytes()
	if !bytes.Equal(b, getValidSuperblockBytes()) {
		t.Error("superblock.bytes() does not round-trip")
	}
}

func TestSuperblockValidate(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(s *superblock)
		deviceBlocks int64
		ok           bool
	}{
		{"valid", func(_ *superblock) {}, 8192, true},
		{"device size mismatch", func(_ *superblock) {}, 8191, false},
		{"zero FAT blocks", func(s *superblock) { s.fatBlockCount = 0 }, 8192, false},
		{"root misplaced", func(s *superblock) { s.rootDirBlock = 6 }, 8192, false},
		{"data misplaced", func(s *superblock) { s.dataStartBlock = 7 }, 8192, false},
		{"counts do not add up", func(s *superblock) { s.dataBlockCount = 8185 }, 8192, false},
		{
			"FAT too small for data region",
			func(s *superblock) {
				s.fatBlockCount = 3
				s.rootDirBlock = 4
				s.dataStartBlock = 5
				s.dataBlockCount = 8187
			},
			8192,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := getValidSuperblock()
			tt.modify(s)
			err := s.validate(tt.deviceBlocks)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrCorruptImage) {
				t.Errorf("expected ErrCorruptImage, got %v", err)
			}
		})
	}
}
