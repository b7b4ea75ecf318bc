package cmd

import (
	"github.com/spf13/cobra"
)

const AppName = "ecs150fs"

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - a FAT-style filesystem image tool",
	}

	rootCmd.AddCommand(
		DefineFormatCommand(),
		DefineInfoCommand(),
		DefineLsCommand(),
		DefineAddCommand(),
		DefineCatCommand(),
		DefineExtractCommand(),
		DefineRmCommand(),
		DefineFindCommand(),
		DefineMountCommand(),
		DefineRecoverCommand(),
		DefineReportCommand(),
	)

	return rootCmd.Execute()
}
