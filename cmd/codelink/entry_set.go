// Entry set command creates or updates a metadata entry.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrel-data/codelink/pkg/metadata"
	"github.com/petrel-data/codelink/pkg/types"
)

var (
	entrySetAsset string
	entrySetLabel string
	entrySetValue string
	entrySetID    string
	entrySetFile  string
	entrySetLine  int
)

var entrySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update a metadata entry",
	Long: `Set attaches a metadata entry to an asset.

The value is a kind-tagged JSON object, for example:
  {"kind": "text", "text": "hello"}
  {"kind": "url", "url": "https://dashboard.example.com"}

As a shorthand for code reference entries, --file and --line build a
code_references value labeled with the entry label:

Example:
  codelink entry set --asset orders --label docs --value '{"kind": "markdown", "markdown": "# Orders"}'
  codelink entry set --asset orders --label asset_definition --file /repo/orders.py --line 42
  codelink entry set --asset orders --label docs --id <entry-id> --value '{"kind": "text", "text": "updated"}'`,
	Args: cobra.NoArgs,
	RunE: runEntrySet,
}

func init() {
	entrySetCmd.Flags().StringVar(&entrySetAsset, "asset", "", "asset key (required)")
	entrySetCmd.Flags().StringVar(&entrySetLabel, "label", "", "entry label (required)")
	entrySetCmd.Flags().StringVar(&entrySetValue, "value", "", "kind-tagged JSON value")
	entrySetCmd.Flags().StringVar(&entrySetID, "id", "", "entry ID to update (empty creates a new entry)")
	entrySetCmd.Flags().StringVar(&entrySetFile, "file", "", "source file path (code reference shorthand)")
	entrySetCmd.Flags().IntVar(&entrySetLine, "line", 0, "source line number (code reference shorthand)")
	_ = entrySetCmd.MarkFlagRequired("asset")
	_ = entrySetCmd.MarkFlagRequired("label")
}

func runEntrySet(cmd *cobra.Command, args []string) error {
	envelope, err := entryValueEnvelope()
	if err != nil {
		fmt.Fprintln(os.Stderr, "entry set:", err)
		os.Exit(exitUserError)
	}

	value, err := metadata.UnmarshalValue(envelope)
	if err != nil {
		fmt.Fprintln(os.Stderr, "entry set: invalid value:", err)
		os.Exit(exitUserError)
	}

	store := mustAttachStore("entry set")
	defer store.Detach()

	table := getTable(store, types.TableEntries, "entry set")

	entry := &types.Entry{
		AssetKey: entrySetAsset,
		Label:    entrySetLabel,
		Kind:     string(value.Kind()),
		Value:    envelope,
	}

	id, err := table.Set(entrySetID, entry)
	if err != nil {
		if isEntityNotFound(err) {
			fmt.Fprintf(os.Stderr, "asset %q not found\n", entrySetAsset)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "set entry:", err)
		os.Exit(exitUserError)
	}

	saved, err := table.Get(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "get saved entry:", err)
		os.Exit(exitSysError)
	}

	if flagJSON {
		return printJSON(saved)
	}
	fmt.Printf("Set entry %s on asset %s: %s\n", entrySetLabel, entrySetAsset, id)
	return nil
}

// entryValueEnvelope builds the kind-tagged value from the flags. The
// --file/--line shorthand and --value are mutually exclusive.
func entryValueEnvelope() ([]byte, error) {
	if entrySetFile != "" {
		if entrySetValue != "" {
			return nil, fmt.Errorf("--file and --value are mutually exclusive")
		}
		refs := metadata.CodeReferencesValue{
			References: []metadata.CodeReference{
				metadata.LocalFileCodeReference{
					FilePath:   entrySetFile,
					LineNumber: entrySetLine,
					Label:      entrySetLabel,
				},
			},
		}
		return metadata.MarshalValue(refs)
	}
	if entrySetValue == "" {
		return nil, fmt.Errorf("either --value or --file is required")
	}
	return []byte(entrySetValue), nil
}
