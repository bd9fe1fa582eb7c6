package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/diskfs/go-blockfs/filesystem/ecs150"
)

func DefineInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "info <image>",
		Short:        "Print the filesystem layout and free ratios",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunInfo,
	}
}

func RunInfo(_ *cobra.Command, args []string) error {
	return withMounted(args[0], func(fs *ecs150.FileSystem) error {
		return fs.Info(os.Stdout)
	})
}
