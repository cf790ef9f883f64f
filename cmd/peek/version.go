package main

import (
	"fmt"

	"github.com/aretw0/peek"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of peek",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "peek version %s\n", peek.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
