// Package sqlite implements the SQLite storage backend for codelink.
// SQLite is the query engine; JSONL files in the data directory are the
// source of truth and are reloaded on every Attach.
package sqlite

// Schema DDL for all tables.
const (
	createAssets = `CREATE TABLE assets (
    asset_id TEXT PRIMARY KEY,
    key TEXT NOT NULL UNIQUE,
    description TEXT,
    created_at TEXT NOT NULL
);`

	createEntries = `CREATE TABLE entries (
    entry_id TEXT PRIMARY KEY,
    asset_key TEXT NOT NULL,
    label TEXT NOT NULL,
    kind TEXT NOT NULL,
    value TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (asset_key) REFERENCES assets(key)
);`

	createEntriesAssetIndex = `CREATE INDEX idx_entries_asset_key ON entries(asset_key);`
)

// schemaStatements lists the DDL executed on Attach, in order.
var schemaStatements = []string{
	createAssets,
	createEntries,
	createEntriesAssetIndex,
}
