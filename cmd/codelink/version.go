// Version command for the codelink CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrel-data/codelink/pkg/codelink"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the codelink version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("codelink", codelink.Version)
	},
}
