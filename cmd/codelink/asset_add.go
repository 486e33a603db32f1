// Asset add command registers a new asset.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrel-data/codelink/pkg/types"
)

var (
	assetAddKey         string
	assetAddDescription string
)

var assetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new asset",
	Long: `Add registers a new asset under the given key.

Example:
  codelink asset add --key warehouse/orders
  codelink asset add --key orders --description "Daily orders model"
  codelink asset add --key orders --json`,
	Args: cobra.NoArgs,
	RunE: runAssetAdd,
}

func init() {
	assetAddCmd.Flags().StringVar(&assetAddKey, "key", "", "asset key (required)")
	assetAddCmd.Flags().StringVar(&assetAddDescription, "description", "", "free-form description")
	_ = assetAddCmd.MarkFlagRequired("key")
}

func runAssetAdd(cmd *cobra.Command, args []string) error {
	store := mustAttachStore("asset add")
	defer store.Detach()

	table := getTable(store, types.TableAssets, "asset add")

	asset := &types.Asset{
		Key:         assetAddKey,
		Description: assetAddDescription,
	}

	id, err := table.Set("", asset)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateKey) {
			fmt.Fprintf(os.Stderr, "asset key %q already exists\n", assetAddKey)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "create asset:", err)
		os.Exit(exitUserError)
	}

	saved, err := table.Get(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "get saved asset:", err)
		os.Exit(exitSysError)
	}

	if flagJSON {
		return printJSON(saved)
	}
	fmt.Printf("Created asset: %s (%s)\n", assetAddKey, id)
	return nil
}
