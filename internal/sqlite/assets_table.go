// Assets table accessor. Each operation hydrates between SQLite rows and
// *types.Asset structs and persists changes to assets.jsonl atomically.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/petrel-data/codelink/pkg/types"
)

var _ types.Table = (*assetsTable)(nil)

type assetsTable struct {
	backend *Backend
}

// Get retrieves an asset by ID.
func (at *assetsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	at.backend.mu.RLock()
	defer at.backend.mu.RUnlock()
	if !at.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := at.backend.db.QueryRow(
		"SELECT asset_id, key, description, created_at FROM assets WHERE asset_id = ?",
		id,
	)
	asset, err := hydrateAsset(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting asset %s: %w", id, err)
	}
	return asset, nil
}

// Set persists an asset. If id is empty, generates a UUID v7 and creates
// the asset. If id is provided, updates the existing asset. The asset key
// must be unique across assets; a clash returns ErrDuplicateKey.
func (at *assetsTable) Set(id string, data any) (string, error) {
	asset, ok := data.(*types.Asset)
	if !ok {
		return "", types.ErrInvalidData
	}
	if err := asset.Validate(); err != nil {
		return "", err
	}

	at.backend.mu.Lock()
	defer at.backend.mu.Unlock()
	if !at.backend.attached {
		return "", types.ErrStoreDetached
	}

	isCreate := id == ""
	if isCreate {
		asset.AssetID = newUUID()
		asset.CreatedAt = time.Now().UTC()
		id = asset.AssetID
	}

	// The key must not belong to a different asset.
	var clash string
	err := at.backend.db.QueryRow(
		"SELECT asset_id FROM assets WHERE key = ? AND asset_id != ?",
		asset.Key, id,
	).Scan(&clash)
	if err == nil {
		return "", types.ErrDuplicateKey
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking key uniqueness: %w", err)
	}

	var exists bool
	err = at.backend.db.QueryRow(
		"SELECT 1 FROM assets WHERE asset_id = ?", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking asset existence: %w", err)
	}

	// Updates never touch created_at; the stored timestamp is set once at
	// creation.
	if exists {
		_, err = at.backend.db.Exec(
			"UPDATE assets SET key = ?, description = ? WHERE asset_id = ?",
			asset.Key, asset.Description, id,
		)
	} else {
		_, err = at.backend.db.Exec(
			"INSERT INTO assets (asset_id, key, description, created_at) VALUES (?, ?, ?, ?)",
			id, asset.Key, asset.Description, asset.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting asset: %w", err)
	}

	if err := persistTableJSONL(at.backend, "assets", "assets.jsonl"); err != nil {
		return "", fmt.Errorf("persisting assets.jsonl: %w", err)
	}

	return id, nil
}

// Delete removes an asset and cascades to its entries.
func (at *assetsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	at.backend.mu.Lock()
	defer at.backend.mu.Unlock()
	if !at.backend.attached {
		return types.ErrStoreDetached
	}

	var key string
	err := at.backend.db.QueryRow(
		"SELECT key FROM assets WHERE asset_id = ?", id,
	).Scan(&key)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.ErrNotFound
		}
		return fmt.Errorf("checking asset existence: %w", err)
	}

	tx, err := at.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries WHERE asset_key = ?", key); err != nil {
		return fmt.Errorf("deleting asset entries: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM assets WHERE asset_id = ?", id); err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing asset deletion: %w", err)
	}

	at.backend.entryCache.Remove(key)

	if err := persistTableJSONL(at.backend, "assets", "assets.jsonl"); err != nil {
		return fmt.Errorf("persisting assets.jsonl: %w", err)
	}
	if err := persistEntriesJSONL(at.backend); err != nil {
		return fmt.Errorf("persisting entries.jsonl: %w", err)
	}

	return nil
}

// Fetch queries assets matching the filter, ordered by key.
// Supported filter fields: "key" (string).
func (at *assetsTable) Fetch(filter map[string]any) ([]any, error) {
	at.backend.mu.RLock()
	defer at.backend.mu.RUnlock()
	if !at.backend.attached {
		return nil, types.ErrStoreDetached
	}

	query := "SELECT asset_id, key, description, created_at FROM assets"
	var conditions []string
	var args []any

	if v, ok := filter["key"]; ok {
		key, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "key = ?")
		args = append(args, key)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY key ASC"

	rows, err := at.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching assets: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		asset, err := hydrateAsset(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating asset: %w", err)
		}
		results = append(results, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}
	return results, nil
}

// hydrateAsset scans one asset row into a *types.Asset.
func hydrateAsset(scan func(dest ...any) error) (*types.Asset, error) {
	var asset types.Asset
	var description sql.NullString
	var createdAt string

	if err := scan(&asset.AssetID, &asset.Key, &description, &createdAt); err != nil {
		return nil, err
	}

	asset.Description = description.String
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	asset.CreatedAt = t
	return &asset, nil
}
