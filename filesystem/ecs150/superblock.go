package ecs150

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// signature identifies a valid image in the first 8 bytes of block 0
const signature = "ECS150FS"

// superblock is the in-memory mirror of block 0. All on-disk integers are
// little-endian; the rest of the block is zero padding.
type superblock struct {
	totalBlockCount uint16
	rootDirBlock    uint16
	dataStartBlock  uint16
	dataBlockCount  uint16
	fatBlockCount   uint8
}

func (s *superblock) equal(a *superblock) bool {
	if (s == nil && a != nil) || (s != nil && a == nil) {
		return false
	}
	if s == nil && a == nil {
		return true
	}
	return *s == *a
}

// superblockFromBytes reads a superblock from a raw block, checking the
// signature. Layout consistency is checked separately by validate.
func superblockFromBytes(b []byte) (*superblock, error) {
	if len(b) != BlockSize {
		return nil, fmt.Errorf("cannot read superblock from %d bytes, must be exactly %d", len(b), BlockSize)
	}
	if !bytes.Equal(b[0:8], []byte(signature)) {
		return nil, fmt.Errorf("%w: invalid signature %q", ErrCorruptImage, string(b[0:8]))
	}
	s := superblock{
		totalBlockCount: binary.LittleEndian.Uint16(b[8:10]),
		rootDirBlock:    binary.LittleEndian.Uint16(b[10:12]),
		dataStartBlock:  binary.LittleEndian.Uint16(b[12:14]),
		dataBlockCount:  binary.LittleEndian.Uint16(b[14:16]),
		fatBlockCount:   b[16],
	}
	return &s, nil
}

// bytes returns the superblock as a full block ready to be written to disk
func (s *superblock) bytes() []byte {
	b := make([]byte, BlockSize)
	copy(b[0:8], signature)
	binary.LittleEndian.PutUint16(b[8:10], s.totalBlockCount)
	binary.LittleEndian.PutUint16(b[10:12], s.rootDirBlock)
	binary.LittleEndian.PutUint16(b[12:14], s.dataStartBlock)
	binary.LittleEndian.PutUint16(b[14:16], s.dataBlockCount)
	b[16] = s.fatBlockCount
	return b
}

// validate checks the layout counts against each other and against the
// size the device actually reports.
func (s *superblock) validate(deviceBlocks int64) error {
	if int64(s.totalBlockCount) != deviceBlocks {
		return fmt.Errorf("%w: superblock says %d blocks, device has %d", ErrCorruptImage, s.totalBlockCount, deviceBlocks)
	}
	if s.fatBlockCount == 0 {
		return fmt.Errorf("%w: zero FAT blocks", ErrCorruptImage)
	}
	if s.rootDirBlock != uint16(s.fatBlockCount)+1 {
		return fmt.Errorf("%w: root directory at block %d, expected %d", ErrCorruptImage, s.rootDirBlock, s.fatBlockCount+1)
	}
	if s.dataStartBlock != uint16(s.fatBlockCount)+2 {
		return fmt.Errorf("%w: data region at block %d, expected %d", ErrCorruptImage, s.dataStartBlock, s.fatBlockCount+2)
	}
	if int(s.totalBlockCount) != 2+int(s.fatBlockCount)+int(s.dataBlockCount) {
		return fmt.Errorf("%w: %d total blocks != 2 + %d FAT + %d data", ErrCorruptImage, s.totalBlockCount, s.fatBlockCount, s.dataBlockCount)
	}
	if int(s.fatBlockCount)*BlockSize < int(s.dataBlockCount)*2 {
		return fmt.Errorf("%w: %d FAT blocks cannot hold %d entries", ErrCorruptImage, s.fatBlockCount, s.dataBlockCount)
	}
	return nil
}
