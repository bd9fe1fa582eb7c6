package cmd

import (
	"github.com/sirupsen/logrus"

	blockfs "github.com/diskfs/go-blockfs"
	"github.com/diskfs/go-blockfs/filesystem/ecs150"
)

// withMounted mounts the image at path, runs fn, and unmounts. The unmount
// runs even when fn fails, so metadata changes made before the failure are
// still flushed; fn must close any descriptors it opened.
func withMounted(path string, fn func(fs *ecs150.FileSystem) error) error {
	fs, err := blockfs.Mount(path)
	if err != nil {
		return err
	}
	logrus.WithField("image", path).Debug("mounted")

	errFn := fn(fs)
	if err := fs.Umount(); err != nil {
		if errFn != nil {
			return errFn
		}
		return err
	}
	logrus.WithField("image", path).Debug("unmounted")
	return errFn
}
