package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/petrel-data/codelink/pkg/metadata"
)

// Entry is one persisted metadata entry attached to an asset. The Value
// field holds the kind-tagged JSON envelope of a metadata.Value; Kind
// duplicates the envelope's tag so entries can be filtered without decoding
// every value.
type Entry struct {
	EntryID   string          `json:"entry_id"`   // UUID v7, generated on creation.
	AssetKey  string          `json:"asset_key"`  // Key of the owning asset (required).
	Label     string          `json:"label"`      // Entry label, unique per asset by convention.
	Kind      string          `json:"kind"`       // Metadata kind tag (metadata.Kind).
	Value     json.RawMessage `json:"value"`      // Kind-tagged metadata value envelope.
	CreatedAt time.Time       `json:"created_at"` // Timestamp of creation.
}

// Validate checks that the entry is well-formed: non-empty asset key and
// label, a recognized kind, and a value envelope that decodes to that kind.
func (e *Entry) Validate() error {
	if e.AssetKey == "" {
		return ErrInvalidKey
	}
	if e.Label == "" {
		return ErrInvalidLabel
	}
	if !metadata.ValidKind(metadata.Kind(e.Kind)) {
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}

	value, err := metadata.UnmarshalValue(e.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValueMismatch, err)
	}
	if value.Kind() != metadata.Kind(e.Kind) {
		return fmt.Errorf("%w: entry says %q, value says %q", ErrValueMismatch, e.Kind, value.Kind())
	}
	return nil
}

// DecodeValue returns the entry's metadata value decoded from its envelope.
func (e *Entry) DecodeValue() (metadata.Value, error) {
	return metadata.UnmarshalValue(e.Value)
}
