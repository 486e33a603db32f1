// Entry delete command removes a metadata entry by ID.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrel-data/codelink/pkg/types"
)

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a metadata entry by ID",
	Long: `Delete removes a metadata entry by its ID.

Example:
  codelink entry delete abc123`,
	Args: cobra.ExactArgs(1),
	RunE: runEntryDelete,
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	store := mustAttachStore("entry delete")
	defer store.Detach()

	table := getTable(store, types.TableEntries, "entry delete")

	if err := table.Delete(id); err != nil {
		if isEntityNotFound(err) {
			fmt.Fprintf(os.Stderr, "entry %q not found\n", id)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "delete entry:", err)
		os.Exit(exitSysError)
	}

	if flagJSON {
		return printJSON(map[string]string{"deleted": id, "status": "success"})
	}
	fmt.Printf("Deleted entry: %s\n", id)
	return nil
}
