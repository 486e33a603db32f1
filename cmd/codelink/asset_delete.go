// Asset delete command removes an asset by key.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrel-data/codelink/pkg/types"
)

var assetDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete an asset by key",
	Long: `Delete removes an asset and all of its metadata entries.

Example:
  codelink asset delete warehouse/orders`,
	Args: cobra.ExactArgs(1),
	RunE: runAssetDelete,
}

func runAssetDelete(cmd *cobra.Command, args []string) error {
	key := args[0]

	store := mustAttachStore("asset delete")
	defer store.Detach()

	asset, err := assetByKey(store, key)
	if err != nil {
		if isEntityNotFound(err) {
			fmt.Fprintf(os.Stderr, "asset %q not found\n", key)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "asset delete:", err)
		os.Exit(exitSysError)
	}

	table := getTable(store, types.TableAssets, "asset delete")
	if err := table.Delete(asset.AssetID); err != nil {
		fmt.Fprintln(os.Stderr, "delete asset:", err)
		os.Exit(exitSysError)
	}

	if flagJSON {
		return printJSON(map[string]string{"deleted": key, "status": "success"})
	}
	fmt.Printf("Deleted asset: %s\n", key)
	return nil
}
