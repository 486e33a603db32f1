// Asset command group for the codelink CLI.
package main

import "github.com/spf13/cobra"

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Manage assets",
}

func init() {
	assetCmd.AddCommand(assetAddCmd)
	assetCmd.AddCommand(assetListCmd)
	assetCmd.AddCommand(assetDeleteCmd)
}
