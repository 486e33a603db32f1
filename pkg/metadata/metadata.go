// Package metadata models the tagged union of metadata-entry kinds that can
// be attached to a pipeline or asset definition: text, URL, JSON, tables,
// column lineage, code references, and so on. The union is closed: every
// variant implements the sealed Value interface, so a type switch over the
// variants in this package is exhaustive.
package metadata

import (
	"errors"
	"fmt"
	"time"
)

// Kind discriminates the metadata-entry variants.
type Kind string

// Recognized metadata-entry kinds.
const (
	KindText           Kind = "text"
	KindURL            Kind = "url"
	KindPath           Kind = "path"
	KindNotebook       Kind = "notebook"
	KindMarkdown       Kind = "markdown"
	KindJSON           Kind = "json"
	KindInt            Kind = "int"
	KindFloat          Kind = "float"
	KindBool           Kind = "bool"
	KindTimestamp      Kind = "timestamp"
	KindAsset          Kind = "asset"
	KindJob            Kind = "job"
	KindNull           Kind = "null"
	KindTable          Kind = "table"
	KindTableSchema    Kind = "table_schema"
	KindColumnLineage  Kind = "column_lineage"
	KindCodeReferences Kind = "code_references"
)

// validKinds is the set of kinds UnmarshalValue and ValidKind accept.
var validKinds = map[Kind]bool{
	KindText:           true,
	KindURL:            true,
	KindPath:           true,
	KindNotebook:       true,
	KindMarkdown:       true,
	KindJSON:           true,
	KindInt:            true,
	KindFloat:          true,
	KindBool:           true,
	KindTimestamp:      true,
	KindAsset:          true,
	KindJob:            true,
	KindNull:           true,
	KindTable:          true,
	KindTableSchema:    true,
	KindColumnLineage:  true,
	KindCodeReferences: true,
}

// ValidKind reports whether k names a recognized metadata-entry kind.
func ValidKind(k Kind) bool {
	return validKinds[k]
}

// Metadata errors.
var (
	ErrInvalidMetadata = errors.New("could not resolve metadata value to a known type")
	ErrUnknownKind     = errors.New("unknown metadata kind")
)

// Value is the closed sum of metadata-entry variants. Only types in this
// package implement it.
type Value interface {
	// Kind returns the variant's discriminator tag.
	Kind() Kind

	metadataValue()
}

// TextValue holds plain descriptive text.
type TextValue struct {
	Text string `json:"text"`
}

// URLValue holds a navigable URL.
type URLValue struct {
	URL string `json:"url"`
}

// PathValue holds a filesystem path.
type PathValue struct {
	Path string `json:"path"`
}

// NotebookValue holds a path to a notebook file.
type NotebookValue struct {
	Path string `json:"path"`
}

// MarkdownValue holds markdown-formatted text.
type MarkdownValue struct {
	Markdown string `json:"markdown"`
}

// JSONValue holds an arbitrary JSON-serializable structure.
type JSONValue struct {
	Data any `json:"data"`
}

// IntValue holds an integer.
type IntValue struct {
	Value int64 `json:"value"`
}

// FloatValue holds a floating-point number.
type FloatValue struct {
	Value float64 `json:"value"`
}

// BoolValue holds a boolean.
type BoolValue struct {
	Value bool `json:"value"`
}

// TimestampValue holds a point in time.
type TimestampValue struct {
	Timestamp time.Time `json:"timestamp"`
}

// AssetValue references another asset by key.
type AssetValue struct {
	AssetKey string `json:"asset_key"`
}

// JobValue references a job by name.
type JobValue struct {
	Name string `json:"name"`
}

// NullValue is the explicit absence of a value.
type NullValue struct{}

func (TextValue) Kind() Kind           { return KindText }
func (URLValue) Kind() Kind            { return KindURL }
func (PathValue) Kind() Kind           { return KindPath }
func (NotebookValue) Kind() Kind       { return KindNotebook }
func (MarkdownValue) Kind() Kind       { return KindMarkdown }
func (JSONValue) Kind() Kind           { return KindJSON }
func (IntValue) Kind() Kind            { return KindInt }
func (FloatValue) Kind() Kind          { return KindFloat }
func (BoolValue) Kind() Kind           { return KindBool }
func (TimestampValue) Kind() Kind      { return KindTimestamp }
func (AssetValue) Kind() Kind          { return KindAsset }
func (JobValue) Kind() Kind            { return KindJob }
func (NullValue) Kind() Kind           { return KindNull }
func (TableValue) Kind() Kind          { return KindTable }
func (TableSchemaValue) Kind() Kind    { return KindTableSchema }
func (ColumnLineageValue) Kind() Kind  { return KindColumnLineage }
func (CodeReferencesValue) Kind() Kind { return KindCodeReferences }

func (TextValue) metadataValue()           {}
func (URLValue) metadataValue()            {}
func (PathValue) metadataValue()           {}
func (NotebookValue) metadataValue()       {}
func (MarkdownValue) metadataValue()       {}
func (JSONValue) metadataValue()           {}
func (IntValue) metadataValue()            {}
func (FloatValue) metadataValue()          {}
func (BoolValue) metadataValue()           {}
func (TimestampValue) metadataValue()      {}
func (AssetValue) metadataValue()          {}
func (JobValue) metadataValue()            {}
func (NullValue) metadataValue()           {}
func (TableValue) metadataValue()          {}
func (TableSchemaValue) metadataValue()    {}
func (ColumnLineageValue) metadataValue()  {}
func (CodeReferencesValue) metadataValue() {}

// Normalize coerces a raw dynamic value to its metadata variant. Values that
// already implement Value pass through unchanged. Strings become TextValue,
// integers IntValue, floats FloatValue, booleans BoolValue, time.Time
// TimestampValue, nil NullValue, and maps or slices JSONValue. Anything else
// returns ErrInvalidMetadata.
func Normalize(raw any) (Value, error) {
	switch v := raw.(type) {
	case Value:
		return v, nil
	case string:
		return TextValue{Text: v}, nil
	case bool:
		return BoolValue{Value: v}, nil
	case int:
		return IntValue{Value: int64(v)}, nil
	case int32:
		return IntValue{Value: int64(v)}, nil
	case int64:
		return IntValue{Value: v}, nil
	case float32:
		return FloatValue{Value: float64(v)}, nil
	case float64:
		return FloatValue{Value: v}, nil
	case time.Time:
		return TimestampValue{Timestamp: v}, nil
	case map[string]any:
		return JSONValue{Data: v}, nil
	case []any:
		return JSONValue{Data: v}, nil
	case nil:
		return NullValue{}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidMetadata, raw)
	}
}
