// Shared helpers for codelink CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/petrel-data/codelink/pkg/sqlite"
	"github.com/petrel-data/codelink/pkg/types"
)

// attachStore resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer store.Detach().
func attachStore() (types.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	store := sqlite.NewBackend()
	if err := store.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}

	return store, nil
}

// mustAttachStore attaches the store or exits with a system error.
func mustAttachStore(context string) types.Store {
	store, err := attachStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, context+":", err)
		os.Exit(exitSysError)
	}
	return store
}

// getTable fetches a table or exits with a system error.
func getTable(store types.Store, name, context string) types.Table {
	table, err := store.GetTable(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, context+": get table:", err)
		os.Exit(exitSysError)
	}
	return table
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// isEntityNotFound returns true if the error wraps ErrNotFound.
func isEntityNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

// assetByKey looks up an asset by its key. Returns ErrNotFound when no
// asset has the key.
func assetByKey(store types.Store, key string) (*types.Asset, error) {
	table, err := store.GetTable(types.TableAssets)
	if err != nil {
		return nil, err
	}
	results, err := table.Fetch(map[string]any{"key": key})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, types.ErrNotFound
	}
	return results[0].(*types.Asset), nil
}
