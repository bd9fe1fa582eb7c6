package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diskfs/go-blockfs/filesystem/ecs150"
)

func DefineStatCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "stat <image> <name>",
		Short:        "Print the size of a file",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunStat,
	}
}

func RunStat(_ *cobra.Command, args []string) error {
	return withMounted(args[0], func(fs *ecs150.FileSystem) error {
		fd, err := fs.Open(args[1])
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close(fd) }()

		size, err := fs.Stat(fd)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d bytes\n", args[1], size)
		return nil
	})
}
