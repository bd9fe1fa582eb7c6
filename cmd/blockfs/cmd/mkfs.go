package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	blockfs "github.com/diskfs/go-blockfs"
)

func DefineMkfsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mkfs <image>",
		Short:        "Create and format a disk image",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunMkfs,
	}

	cmd.Flags().Int64P("blocks", "b", 0, "total number of 4096-byte blocks in the image")
	_ = cmd.MarkFlagRequired("blocks")

	return cmd
}

func RunMkfs(cmd *cobra.Command, args []string) error {
	blocks, _ := cmd.Flags().GetInt64("blocks")
	logrus.WithFields(logrus.Fields{"image": args[0], "blocks": blocks}).Debug("creating image")
	return blockfs.Mkfs(args[0], blocks)
}
