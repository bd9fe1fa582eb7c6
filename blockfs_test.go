package blockfs_test

import (
	"os"
	"path/filepath"
	"testing"

	blockfs "github.com/diskfs/go-blockfs"
	"github.com/diskfs/go-blockfs/blockdev"
)

func TestMkfsMount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := blockfs.Mkfs(path, 64); err != nil {
		t.Fatalf("error making filesystem: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := info.Size(), int64(64*blockdev.BlockSize); got != want {
		t.Errorf("image size: got %d, want %d", got, want)
	}

	fs, err := blockfs.Mount(path)
	if err != nil {
		t.Fatalf("error mounting: %v", err)
	}
	if err := fs.Create("roundtrip"); err != nil {
		t.Errorf("error creating file: %v", err)
	}
	if err := fs.Umount(); err != nil {
		t.Fatalf("error unmounting: %v", err)
	}
}

func TestMkfsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := os.WriteFile(path, []byte("occupied"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := blockfs.Mkfs(path, 64); err == nil {
		t.Error("expected error creating over an existing file")
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(t.TempDir(), "nope.img")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := blockfs.Open(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
