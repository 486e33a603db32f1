// Entry command group for the codelink CLI.
package main

import "github.com/spf13/cobra"

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage metadata entries",
}

func init() {
	entryCmd.AddCommand(entrySetCmd)
	entryCmd.AddCommand(entryGetCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryDeleteCmd)
}
