package cmd

import (
	"github.com/spf13/cobra"

	"github.com/diskfs/go-blockfs/filesystem/ecs150"
)

func DefineCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "create <image> <name>",
		Short:        "Create an empty file",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunCreate,
	}
}

func RunCreate(_ *cobra.Command, args []string) error {
	return withMounted(args[0], func(fs *ecs150.FileSystem) error {
		return fs.Create(args[1])
	})
}
