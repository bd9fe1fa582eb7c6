package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/diskfs/go-blockfs/filesystem/ecs150"
)

func DefineReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "read <image> <name>",
		Short:        "Copy a file's contents to stdout",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunRead,
	}
}

func RunRead(_ *cobra.Command, args []string) error {
	return withMounted(args[0], func(fs *ecs150.FileSystem) error {
		fd, err := fs.Open(args[1])
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close(fd) }()

		buf := make([]byte, 64*1024)
		for {
			n, err := fs.Read(fd, buf)
			if err != nil {
				return err
			}
			if n == 0 {
				return nil
			}
			logrus.WithFields(logrus.Fields{"file": args[1], "bytes": n}).Debug("read chunk")
			if _, err := os.Stdout.Write(buf[:n]); err != nil {
				return err
			}
		}
	})
}
