package ecs150

import (
	"bytes"
	"encoding/binary"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func entriesFromMap(m map[uint16]uint16, count uint16) []uint16 {
	entries := make([]uint16, count)
	entries[0] = fatEOC
	for k, v := range m {
		entries[k] = v
	}
	return entries
}

func getValidTable() *table {
	/*
		chains:
			1-2-3
			5
			7-4
	*/
	return &table{
		entries: entriesFromMap(map[uint16]uint16{
			1: 2,
			2: 3,
			3: fatEOC,
			4: fatEOC,
			5: fatEOC,
			7: 4,
		}, 16),
	}
}

func getValidTableBytes() []byte {
	t := getValidTable()
	b := make([]byte, 64)
	for i, val := range t.entries {
		binary.LittleEndian.PutUint16(b[i*2:i*2+2], val)
	}
	return b
}

func TestTableFromBytes(t *testing.T) {
	t.Run("valid table", func(t *testing.T) {
		// trailing padding past the entry count must be ignored
		b := append(getValidTableBytes(), make([]byte, 32)...)
		result, err := tableFromBytes(b, 16)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		valid := getValidTable()
		if !result.equal(valid) {
			t.Errorf("mismatched table:\n%s", cmp.Diff(valid, result, cmp.AllowUnexported(table{})))
		}
	})
	t.Run("short buffer", func(t *testing.T) {
		if _, err := tableFromBytes(make([]byte, 16), 16); err == nil {
			t.Error("expected error for short buffer")
		}
	})
}

func TestTableBytes(t *testing.T) {
	b := getValidTable().bytes(64)
	if !bytes.Equal(b, getValidTableBytes()) {
		t.Error("table.bytes() does not round-trip")
	}
}

func TestTableFree(t *testing.T) {
	// 16 entries, entry 0 reserved, 6 in chains
	if got, want := getValidTable().free(), 9; got != want {
		t.Errorf("free(): got %d, want %d", got, want)
	}
	fresh := &table{entries: entriesFromMap(nil, 16)}
	if got, want := fresh.free(), 15; got != want {
		t.Errorf("free() on fresh table: got %d, want %d", got, want)
	}
}

func TestTableFirstFree(t *testing.T) {
	tab := getValidTable()
	// first-fit must return the lowest free index, skipping reserved entry 0
	free, ok := tab.firstFree()
	if !ok || free != 6 {
		t.Errorf("firstFree(): got %d/%t, want 6/true", free, ok)
	}
	tab.set(6, fatEOC)
	free, ok = tab.firstFree()
	if !ok || free != 8 {
		t.Errorf("firstFree() after claiming 6: got %d/%t, want 8/true", free, ok)
	}
	for i := 8; i < 16; i++ {
		tab.set(uint16(i), fatEOC)
	}
	if _, ok := tab.firstFree(); ok {
		t.Error("firstFree() on a full table should report no free entry")
	}
}

func TestTableChain(t *testing.T) {
	tests := []struct {
		name   string
		first  uint16
		blocks []uint16
		ok     bool
	}{
		{"three blocks", 1, []uint16{1, 2, 3}, true},
		{"single block", 5, []uint16{5}, true},
		{"out of order", 7, []uint16{7, 4}, true},
		{"empty chain", fatEOC, nil, true},
		{"out of range", 20, nil, false},
	}
	tab := getValidTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := tab.chain(tt.first)
			if tt.ok != (err == nil) {
				t.Fatalf("chain(%d): unexpected error state %v", tt.first, err)
			}
			if !slices.Equal(blocks, tt.blocks) {
				t.Errorf("chain(%d): got %v, want %v", tt.first, blocks, tt.blocks)
			}
		})
	}

	t.Run("cycle does not terminate", func(t *testing.T) {
		cyclic := &table{entries: entriesFromMap(map[uint16]uint16{1: 2, 2: 1}, 4)}
		if _, err := cyclic.chain(1); err == nil {
			t.Error("expected error for cyclic chain")
		}
	})
}

func TestTableFreeChain(t *testing.T) {
	tab := getValidTable()
	tab.freeChain(1)
	want := &table{
		entries: entriesFromMap(map[uint16]uint16{
			4: fatEOC,
			5: fatEOC,
			7: 4,
		}, 16),
	}
	if !tab.equal(want) {
		t.Errorf("mismatched table after freeChain:\n%s", cmp.Diff(want, tab, cmp.AllowUnexported(table{})))
	}
	// freeing the empty chain is a no-op
	tab.freeChain(fatEOC)
	if !tab.equal(want) {
		t.Error("freeChain(fatEOC) modified the table")
	}
}
