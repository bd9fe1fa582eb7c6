package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/diskfs/go-blockfs/filesystem/ecs150"
)

func DefineLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "ls <image>",
		Short:        "List the files in the root directory",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunLs,
	}
}

func RunLs(_ *cobra.Command, args []string) error {
	return withMounted(args[0], func(fs *ecs150.FileSystem) error {
		return fs.Ls(os.Stdout)
	})
}
