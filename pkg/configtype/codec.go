// JSON codec for config types. Each type travels as an object carrying a
// "kind" discriminator alongside the variant's fields; a Schema travels as
// a map from type key to that envelope.
package configtype

import (
	"encoding/json"
	"fmt"
)

// MarshalType encodes t as a JSON object with its kind tag.
func MarshalType(t Type) ([]byte, error) {
	if t == nil {
		return nil, ErrUnknownKind
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s type %q: %w", t.Kind(), t.TypeKey(), err)
	}

	envelope := map[string]any{}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("re-reading %s type %q: %w", t.Kind(), t.TypeKey(), err)
	}
	envelope["kind"] = t.Kind()

	return json.Marshal(envelope)
}

// UnmarshalType decodes a JSON object produced by MarshalType back into its
// variant. Returns ErrUnknownKind for an unrecognized kind tag.
func UnmarshalType(data []byte) (Type, error) {
	var probe struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("reading config type envelope: %w", err)
	}

	switch probe.Kind {
	case KindScalar:
		return decodeType[Scalar](data)
	case KindEnum:
		return decodeType[Enum](data)
	case KindArray:
		return decodeType[Array](data)
	case KindMap:
		return decodeType[Map](data)
	case KindNullable:
		return decodeType[Nullable](data)
	case KindComposite:
		return decodeType[Composite](data)
	case KindScalarUnion:
		return decodeType[ScalarUnion](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, probe.Kind)
	}
}

// decodeType unmarshals data into the variant type T.
func decodeType[T Type](data []byte) (Type, error) {
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding %s type: %w", t.Kind(), err)
	}
	return t, nil
}

// MarshalJSON encodes the schema as a map of kind-tagged type envelopes.
func (s Schema) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s))
	for key, t := range s {
		data, err := MarshalType(t)
		if err != nil {
			return nil, err
		}
		out[key] = data
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a map of kind-tagged type envelopes. Entries whose
// envelope key disagrees with the type's own key keep the type's key.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Schema, len(raw))
	for key, payload := range raw {
		t, err := UnmarshalType(payload)
		if err != nil {
			return fmt.Errorf("decoding schema entry %q: %w", key, err)
		}
		if err := out.Add(t); err != nil {
			return fmt.Errorf("adding schema entry %q: %w", key, err)
		}
	}
	*s = out
	return nil
}
