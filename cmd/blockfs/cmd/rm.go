package cmd

import (
	"github.com/spf13/cobra"

	"github.com/diskfs/go-blockfs/filesystem/ecs150"
)

func DefineRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "rm <image> <name>",
		Short:        "Delete a file and release its blocks",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunRm,
	}
}

func RunRm(_ *cobra.Command, args []string) error {
	return withMounted(args[0], func(fs *ecs150.FileSystem) error {
		return fs.Delete(args[1])
	})
}
