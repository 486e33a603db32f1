// Resolve command turns an asset's code references into editor links.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrel-data/codelink/pkg/codelink"
	"github.com/petrel-data/codelink/pkg/metadata"
	"github.com/petrel-data/codelink/pkg/types"
)

var resolveTemplate string

var resolveCmd = &cobra.Command{
	Use:   "resolve <asset-key>",
	Short: "Resolve open-in-editor links for an asset",
	Long: `Resolve collects the code reference entries attached to an asset and
builds clickable editor links from the configured URL template.

The template comes from --template, then config.yaml url_template, then
the CODELINK_URL_TEMPLATE environment variable, then the built-in
vscode://file/{FILE}:{LINE} default. {FILE} and {LINE} are substituted
with each location's file path and line number.

Example:
  codelink resolve orders
  codelink resolve orders --template "idea://open?file={FILE}&line={LINE}"
  codelink resolve orders --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveTemplate, "template", "", "editor URL template")
}

func runResolve(cmd *cobra.Command, args []string) error {
	assetKey := args[0]

	store := mustAttachStore("resolve")
	defer store.Detach()

	if _, err := assetByKey(store, assetKey); err != nil {
		if isEntityNotFound(err) {
			fmt.Fprintf(os.Stderr, "asset %q not found\n", assetKey)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "resolve:", err)
		os.Exit(exitSysError)
	}

	sources, err := collectSourceLocations(store, assetKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolve:", err)
		os.Exit(exitSysError)
	}

	resolved := codelink.Resolve(sources, codelink.Config{
		URLTemplate: resolveURLTemplate(resolveTemplate),
	})

	if flagJSON {
		return printJSON(resolved)
	}

	if !resolved.HasDefault() {
		fmt.Printf("No code references found for asset %s\n", assetKey)
		return nil
	}

	fmt.Printf("%s: %s\n", resolved.DefaultKey, resolved.DefaultLink)
	for _, alt := range resolved.Alternates {
		fmt.Printf("%s: %s\n", alt.Key, alt.Link)
	}
	return nil
}

// collectSourceLocations merges the location sets of every code reference
// entry on the asset, in entry creation order. A location key repeated by a
// later entry replaces the earlier value but keeps its position.
func collectSourceLocations(store types.Store, assetKey string) (codelink.SourceLocationSet, error) {
	table, err := store.GetTable(types.TableEntries)
	if err != nil {
		return codelink.SourceLocationSet{}, err
	}

	entities, err := table.Fetch(map[string]any{
		"asset_key": assetKey,
		"kind":      string(metadata.KindCodeReferences),
	})
	if err != nil {
		return codelink.SourceLocationSet{}, fmt.Errorf("fetch code reference entries: %w", err)
	}

	var merged codelink.SourceLocationSet
	for _, entity := range entities {
		entry := entity.(*types.Entry)
		value, err := entry.DecodeValue()
		if err != nil {
			return codelink.SourceLocationSet{}, fmt.Errorf("decode entry %s: %w", entry.EntryID, err)
		}
		refs, ok := value.(metadata.CodeReferencesValue)
		if !ok {
			continue
		}
		set := refs.LocationSet()
		for _, key := range set.Keys() {
			loc, _ := set.Get(key)
			if err := merged.Add(key, loc); err != nil {
				return codelink.SourceLocationSet{}, err
			}
		}
	}
	return merged, nil
}
