package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/diskfs/go-blockfs/filesystem/ecs150"
)

func DefineWriteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "write <image> <hostfile>",
		Short:        "Copy a host file into the image",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunWrite,
	}

	cmd.Flags().StringP("name", "n", "", "name inside the image (default: the host file's base name)")

	return cmd
}

func RunWrite(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(args[1])
	}

	return withMounted(args[0], func(fs *ecs150.FileSystem) error {
		if err := fs.Create(name); err != nil {
			return err
		}
		fd, err := fs.Open(name)
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close(fd) }()

		n, err := fs.Write(fd, data)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"file": name, "bytes": n}).Debug("wrote file")
		if n < len(data) {
			return fmt.Errorf("short write: %d of %d bytes, image is full", n, len(data))
		}
		return nil
	})
}
