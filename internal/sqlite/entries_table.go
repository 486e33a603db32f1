// Entries table accessor. Entry values are kind-tagged JSON envelopes stored
// as TEXT; they round-trip through json.RawMessage so the backend never
// interprets metadata payloads.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/petrel-data/codelink/pkg/types"
)

var _ types.Table = (*entriesTable)(nil)

type entriesTable struct {
	backend *Backend
}

// entryJSONLRecord is the on-disk shape of one entries.jsonl line. Value is
// kept as raw JSON so the envelope is embedded, not double-encoded.
type entryJSONLRecord struct {
	EntryID   string          `json:"entry_id"`
	AssetKey  string          `json:"asset_key"`
	Label     string          `json:"label"`
	Kind      string          `json:"kind"`
	Value     json.RawMessage `json:"value"`
	CreatedAt string          `json:"created_at"`
}

// Get retrieves an entry by ID.
func (et *entriesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	et.backend.mu.RLock()
	defer et.backend.mu.RUnlock()
	if !et.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := et.backend.db.QueryRow(
		"SELECT entry_id, asset_key, label, kind, value, created_at FROM entries WHERE entry_id = ?",
		id,
	)
	entry, err := hydrateEntry(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting entry %s: %w", id, err)
	}
	return entry, nil
}

// Set persists an entry. If id is empty, generates a UUID v7 and creates
// the entry. The referenced asset must already exist.
func (et *entriesTable) Set(id string, data any) (string, error) {
	entry, ok := data.(*types.Entry)
	if !ok {
		return "", types.ErrInvalidData
	}
	if err := entry.Validate(); err != nil {
		return "", err
	}

	et.backend.mu.Lock()
	defer et.backend.mu.Unlock()
	if !et.backend.attached {
		return "", types.ErrStoreDetached
	}

	var exists bool
	err := et.backend.db.QueryRow(
		"SELECT 1 FROM assets WHERE key = ?", entry.AssetKey,
	).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", types.ErrNotFound
		}
		return "", fmt.Errorf("checking asset %s: %w", entry.AssetKey, err)
	}

	isCreate := id == ""
	if isCreate {
		entry.EntryID = newUUID()
		entry.CreatedAt = time.Now().UTC()
		id = entry.EntryID
	}

	err = et.backend.db.QueryRow(
		"SELECT 1 FROM entries WHERE entry_id = ?", id,
	).Scan(&exists)
	entryExists := err == nil
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking entry existence: %w", err)
	}

	// Updates never touch created_at; the stored timestamp defines the
	// entry's position in creation-ordered fetches.
	if entryExists {
		_, err = et.backend.db.Exec(
			"UPDATE entries SET asset_key = ?, label = ?, kind = ?, value = ? WHERE entry_id = ?",
			entry.AssetKey, entry.Label, entry.Kind, string(entry.Value), id,
		)
	} else {
		_, err = et.backend.db.Exec(
			"INSERT INTO entries (entry_id, asset_key, label, kind, value, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			id, entry.AssetKey, entry.Label, entry.Kind, string(entry.Value),
			entry.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting entry: %w", err)
	}

	et.backend.entryCache.Remove(entry.AssetKey)

	if err := persistEntriesJSONL(et.backend); err != nil {
		return "", fmt.Errorf("persisting entries.jsonl: %w", err)
	}

	return id, nil
}

// Delete removes an entry by ID.
func (et *entriesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	et.backend.mu.Lock()
	defer et.backend.mu.Unlock()
	if !et.backend.attached {
		return types.ErrStoreDetached
	}

	var assetKey string
	err := et.backend.db.QueryRow(
		"SELECT asset_key FROM entries WHERE entry_id = ?", id,
	).Scan(&assetKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.ErrNotFound
		}
		return fmt.Errorf("checking entry existence: %w", err)
	}

	if _, err := et.backend.db.Exec("DELETE FROM entries WHERE entry_id = ?", id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	et.backend.entryCache.Remove(assetKey)

	if err := persistEntriesJSONL(et.backend); err != nil {
		return fmt.Errorf("persisting entries.jsonl: %w", err)
	}

	return nil
}

// Fetch queries entries matching the filter, ordered by creation time then
// ID so repeated calls observe a stable order. Supported filter fields:
// "asset_key", "kind", "label" (strings), "limit", "offset" (ints).
//
// An asset_key-only filter is served from the per-asset read cache when
// possible; writes invalidate the cached slice for the touched key.
func (et *entriesTable) Fetch(filter map[string]any) ([]any, error) {
	et.backend.mu.RLock()
	defer et.backend.mu.RUnlock()
	if !et.backend.attached {
		return nil, types.ErrStoreDetached
	}

	if key, ok := cacheableAssetKey(filter); ok {
		if cached, hit := et.backend.entryCache.Get(key); hit {
			return copyEntries(cached), nil
		}
	}

	query := "SELECT entry_id, asset_key, label, kind, value, created_at FROM entries"
	var conditions []string
	var args []any

	for _, field := range []string{"asset_key", "kind", "label"} {
		v, ok := filter[field]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, field+" = ?")
		args = append(args, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, entry_id ASC"

	if v, ok := filter["limit"]; ok {
		limit, ok := v.(int)
		if !ok || limit < 0 {
			return nil, types.ErrInvalidFilter
		}
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if v, ok := filter["offset"]; ok {
		offset, ok := v.(int)
		if !ok || offset < 0 {
			return nil, types.ErrInvalidFilter
		}
		if _, hasLimit := filter["limit"]; !hasLimit {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, offset)
	}

	rows, err := et.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching entries: %w", err)
	}
	defer rows.Close()

	entries := []*types.Entry{}
	for rows.Next() {
		entry, err := hydrateEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	if key, ok := cacheableAssetKey(filter); ok {
		et.backend.entryCache.Add(key, entries)
		// The cached slice must not alias what the caller receives.
		return copyEntries(entries), nil
	}

	results := make([]any, len(entries))
	for i, e := range entries {
		results[i] = e
	}
	return results, nil
}

// copyEntries returns the entries as []any of fresh copies so callers
// cannot mutate the read cache through fetched pointers.
func copyEntries(entries []*types.Entry) []any {
	results := make([]any, len(entries))
	for i, e := range entries {
		c := *e
		results[i] = &c
	}
	return results
}

// cacheableAssetKey reports whether the filter is exactly one asset_key
// condition, the only shape the read cache stores.
func cacheableAssetKey(filter map[string]any) (string, bool) {
	if len(filter) != 1 {
		return "", false
	}
	v, ok := filter["asset_key"]
	if !ok {
		return "", false
	}
	key, ok := v.(string)
	return key, ok
}

// hydrateEntry scans one entry row into a *types.Entry.
func hydrateEntry(scan func(dest ...any) error) (*types.Entry, error) {
	var entry types.Entry
	var value string
	var createdAt string

	if err := scan(&entry.EntryID, &entry.AssetKey, &entry.Label, &entry.Kind, &value, &createdAt); err != nil {
		return nil, err
	}

	entry.Value = json.RawMessage(value)
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	entry.CreatedAt = t
	return &entry, nil
}

// persistEntriesJSONL writes all entries to entries.jsonl. It uses a
// dedicated record type rather than the generic column dump so the value
// envelope lands as nested JSON instead of an escaped string.
func persistEntriesJSONL(b *Backend) error {
	rows, err := b.db.Query(
		"SELECT entry_id, asset_key, label, kind, value, created_at FROM entries ORDER BY created_at ASC, entry_id ASC",
	)
	if err != nil {
		return fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec entryJSONLRecord
		var value string
		if err := rows.Scan(&rec.EntryID, &rec.AssetKey, &rec.Label, &rec.Kind, &value, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning entry: %w", err)
		}
		rec.Value = json.RawMessage(value)
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling entry record: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating entries: %w", err)
	}

	return writeJSONL(filepath.Join(b.config.DataDir, "entries.jsonl"), records)
}
