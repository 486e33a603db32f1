package types

import "time"

// Asset represents a pipeline or asset definition that metadata entries
// hang off. The Key is the stable human-facing identifier ("orders",
// "warehouse/orders_cleaned"); the AssetID is the storage identity.
type Asset struct {
	AssetID     string    `json:"asset_id"`              // UUID v7, generated on creation.
	Key         string    `json:"key"`                   // Unique asset key (required, non-empty).
	Description string    `json:"description,omitempty"` // Optional free-form description.
	CreatedAt   time.Time `json:"created_at"`            // Timestamp of creation.
}

// Validate checks that the asset is well-formed.
// Returns ErrInvalidKey if the key is empty.
func (a *Asset) Validate() error {
	if a.Key == "" {
		return ErrInvalidKey
	}
	return nil
}
