// Entry list command queries metadata entries for an asset.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/petrel-data/codelink/pkg/types"
)

var (
	entryListKind  string
	entryListLabel string
	entryListLimit int
)

var entryListCmd = &cobra.Command{
	Use:   "list <asset-key>",
	Short: "List metadata entries for an asset",
	Long: `List fetches the metadata entries attached to an asset in creation order.

Example:
  codelink entry list orders
  codelink entry list orders --kind code_references
  codelink entry list orders --label docs --json`,
	Args: cobra.ExactArgs(1),
	RunE: runEntryList,
}

func init() {
	entryListCmd.Flags().StringVar(&entryListKind, "kind", "", "filter by metadata kind")
	entryListCmd.Flags().StringVar(&entryListLabel, "label", "", "filter by entry label")
	entryListCmd.Flags().IntVar(&entryListLimit, "limit", 0, "maximum number of results (0 = no limit)")
}

func runEntryList(cmd *cobra.Command, args []string) error {
	assetKey := args[0]

	store := mustAttachStore("entry list")
	defer store.Detach()

	table := getTable(store, types.TableEntries, "entry list")

	filter := map[string]any{"asset_key": assetKey}
	if entryListKind != "" {
		filter["kind"] = entryListKind
	}
	if entryListLabel != "" {
		filter["label"] = entryListLabel
	}
	if entryListLimit > 0 {
		filter["limit"] = entryListLimit
	}

	entities, err := table.Fetch(filter)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch entries:", err)
		os.Exit(exitSysError)
	}

	entries := make([]*types.Entry, len(entities))
	for i, entity := range entities {
		entries[i] = entity.(*types.Entry)
	}

	if flagJSON {
		return printJSON(entries)
	}
	printEntryTable(entries)
	return nil
}

// printEntryTable prints entries in a human-readable table format.
func printEntryTable(entries []*types.Entry) {
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tLABEL\tKIND\tCREATED")
	fmt.Fprintln(w, "--\t-----\t----\t-------")
	for _, e := range entries {
		shortID := e.EntryID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID,
			e.Label,
			e.Kind,
			e.CreatedAt.Format("2006-01-02"),
		)
	}
	w.Flush()

	for _, line := range strings.Split(sb.String(), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Total: %d entry(ies)\n", len(entries))
}
