package metadata

// TableColumnConstraints describe the constraints on a single column.
type TableColumnConstraints struct {
	Nullable bool     `json:"nullable"`
	Unique   bool     `json:"unique"`
	Other    []string `json:"other,omitempty"`
}

// TableColumn describes one column of a table schema.
type TableColumn struct {
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Constraints TableColumnConstraints `json:"constraints"`
	Tags        map[string]string      `json:"tags,omitempty"`
}

// TableConstraints describe table-level constraints.
type TableConstraints struct {
	Other []string `json:"other,omitempty"`
}

// TableSchema describes the structure of a table: its columns and any
// table-level constraints.
type TableSchema struct {
	Columns     []TableColumn    `json:"columns"`
	Constraints TableConstraints `json:"constraints"`
}

// TableRecord is one row of tabular data. Values are scalars keyed by
// column name.
type TableRecord map[string]any

// TableColumnDep identifies an upstream column another column derives from.
type TableColumnDep struct {
	AssetKey   string `json:"asset_key"`
	ColumnName string `json:"column_name"`
}

// TableColumnLineage maps each column name to the upstream columns it is
// derived from.
type TableColumnLineage struct {
	DepsByColumn map[string][]TableColumnDep `json:"deps_by_column"`
}

// TableValue holds tabular records together with their schema.
type TableValue struct {
	Records []TableRecord `json:"records"`
	Schema  TableSchema   `json:"schema"`
}

// TableSchemaValue holds a table schema without records.
type TableSchemaValue struct {
	Schema TableSchema `json:"schema"`
}

// ColumnLineageValue holds column-level lineage for a table.
type ColumnLineageValue struct {
	Lineage TableColumnLineage `json:"lineage"`
}
