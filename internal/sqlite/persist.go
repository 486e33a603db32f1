// Generic JSONL persistence: dump a SQLite table back to its
// source-of-truth file after a mutation.
package sqlite

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

// persistTableJSONL reads all rows from the given SQLite table and writes
// them as JSONL to the given filename, using the atomic write pattern.
// Shared across table accessors that need no per-column shaping.
func persistTableJSONL(b *Backend, tableName, fileName string) error {
	rows, err := b.db.Query("SELECT * FROM " + tableName)
	if err != nil {
		return fmt.Errorf("querying %s for JSONL: %w", tableName, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting columns for %s: %w", tableName, err)
	}

	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning %s row: %w", tableName, err)
		}
		rec := make(map[string]any, len(cols))
		for i, col := range cols {
			rec[col] = values[i]
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling %s row: %w", tableName, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s for JSONL: %w", tableName, err)
	}

	return writeJSONL(filepath.Join(b.config.DataDir, fileName), records)
}
