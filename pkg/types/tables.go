package types

// Standard table names for Store.GetTable.
const (
	TableAssets  = "assets"
	TableEntries = "entries"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableAssets,
	TableEntries,
}
