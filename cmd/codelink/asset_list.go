// Asset list command queries registered assets.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/petrel-data/codelink/pkg/types"
)

var assetListKey string

var assetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets",
	Long: `List fetches registered assets and displays them ordered by key.

Example:
  codelink asset list
  codelink asset list --key orders
  codelink asset list --json`,
	Args: cobra.NoArgs,
	RunE: runAssetList,
}

func init() {
	assetListCmd.Flags().StringVar(&assetListKey, "key", "", "filter by exact asset key")
}

func runAssetList(cmd *cobra.Command, args []string) error {
	store := mustAttachStore("asset list")
	defer store.Detach()

	table := getTable(store, types.TableAssets, "asset list")

	filter := make(map[string]any)
	if assetListKey != "" {
		filter["key"] = assetListKey
	}

	entities, err := table.Fetch(filter)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch assets:", err)
		os.Exit(exitSysError)
	}

	assets := make([]*types.Asset, len(entities))
	for i, entity := range entities {
		assets[i] = entity.(*types.Asset)
	}

	if flagJSON {
		return printJSON(assets)
	}
	printAssetTable(assets)
	return nil
}

// printAssetTable prints assets in a human-readable table format.
func printAssetTable(assets []*types.Asset) {
	if len(assets) == 0 {
		fmt.Println("No assets found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tKEY\tDESCRIPTION\tCREATED")
	fmt.Fprintln(w, "--\t---\t-----------\t-------")
	for _, a := range assets {
		desc := a.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		shortID := a.AssetID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID,
			a.Key,
			desc,
			a.CreatedAt.Format("2006-01-02"),
		)
	}
	w.Flush()

	for _, line := range strings.Split(sb.String(), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Total: %d asset(s)\n", len(assets))
}
