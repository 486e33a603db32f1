// JSON codec for metadata values. Values travel as a single JSON object
// carrying a "kind" discriminator alongside the variant's own fields, e.g.
//
//	{"kind": "text", "text": "built nightly"}
//	{"kind": "code_references", "code_references": [...]}
package metadata

import (
	"encoding/json"
	"fmt"
)

// MarshalValue encodes v as a JSON object with its kind tag.
func MarshalValue(v Value) ([]byte, error) {
	if v == nil {
		return nil, ErrInvalidMetadata
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s value: %w", v.Kind(), err)
	}

	envelope := map[string]any{}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("re-reading %s value: %w", v.Kind(), err)
	}
	envelope["kind"] = v.Kind()

	return json.Marshal(envelope)
}

// UnmarshalValue decodes a JSON object produced by MarshalValue back into
// its variant. Returns ErrUnknownKind for an unrecognized kind tag.
func UnmarshalValue(data []byte) (Value, error) {
	var probe struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("reading metadata envelope: %w", err)
	}

	switch probe.Kind {
	case KindText:
		return decode[TextValue](data)
	case KindURL:
		return decode[URLValue](data)
	case KindPath:
		return decode[PathValue](data)
	case KindNotebook:
		return decode[NotebookValue](data)
	case KindMarkdown:
		return decode[MarkdownValue](data)
	case KindJSON:
		return decode[JSONValue](data)
	case KindInt:
		return decode[IntValue](data)
	case KindFloat:
		return decode[FloatValue](data)
	case KindBool:
		return decode[BoolValue](data)
	case KindTimestamp:
		return decode[TimestampValue](data)
	case KindAsset:
		return decode[AssetValue](data)
	case KindJob:
		return decode[JobValue](data)
	case KindNull:
		return NullValue{}, nil
	case KindTable:
		return decode[TableValue](data)
	case KindTableSchema:
		return decode[TableSchemaValue](data)
	case KindColumnLineage:
		return decode[ColumnLineageValue](data)
	case KindCodeReferences:
		return decode[CodeReferencesValue](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, probe.Kind)
	}
}

// decode unmarshals data into the variant type T.
func decode[T Value](data []byte) (Value, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding %s value: %w", v.Kind(), err)
	}
	return v, nil
}
