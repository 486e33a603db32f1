// Entry get command retrieves a metadata entry by ID.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrel-data/codelink/pkg/types"
)

var entryGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Retrieve a metadata entry by ID",
	Long: `Get retrieves a metadata entry by its ID.

Example:
  codelink entry get abc123
  codelink entry get abc123 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runEntryGet,
}

func runEntryGet(cmd *cobra.Command, args []string) error {
	id := args[0]

	store := mustAttachStore("entry get")
	defer store.Detach()

	table := getTable(store, types.TableEntries, "entry get")

	entity, err := table.Get(id)
	if err != nil {
		if isEntityNotFound(err) {
			fmt.Fprintf(os.Stderr, "entry %q not found\n", id)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "get entry:", err)
		os.Exit(exitSysError)
	}

	entry := entity.(*types.Entry)
	if flagJSON {
		return printJSON(entry)
	}
	printEntryDetails(entry)
	return nil
}

// printEntryDetails prints entry fields in human-readable format.
func printEntryDetails(e *types.Entry) {
	fmt.Printf("ID:       %s\n", e.EntryID)
	fmt.Printf("Asset:    %s\n", e.AssetKey)
	fmt.Printf("Label:    %s\n", e.Label)
	fmt.Printf("Kind:     %s\n", e.Kind)
	fmt.Printf("Value:    %s\n", string(e.Value))
	fmt.Printf("Created:  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
}
