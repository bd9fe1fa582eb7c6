// Package cmd defines the blockfs command tree: image creation plus the
// file operations of the ECS150 filesystem, one subcommand each.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const AppName = "blockfs"

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - ECS150-FS disk image tool",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(DefineMkfsCommand())
	rootCmd.AddCommand(DefineInfoCommand())
	rootCmd.AddCommand(DefineLsCommand())
	rootCmd.AddCommand(DefineCreateCommand())
	rootCmd.AddCommand(DefineRmCommand())
	rootCmd.AddCommand(DefineStatCommand())
	rootCmd.AddCommand(DefineReadCommand())
	rootCmd.AddCommand(DefineWriteCommand())

	return rootCmd.Execute()
}
