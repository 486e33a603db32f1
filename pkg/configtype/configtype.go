// Package configtype models the config-type trees a type-explorer panel
// displays: scalar, enum, array, map, nullable, composite, and scalar-union
// types, each identified by a unique key and referencing its type parameters
// by key. The variant set is closed; a type switch over the variants in this
// package is exhaustive.
package configtype

import (
	"errors"
	"fmt"
)

// Kind discriminates the config-type variants.
type Kind string

// Recognized config-type kinds.
const (
	KindScalar      Kind = "scalar"
	KindEnum        Kind = "enum"
	KindArray       Kind = "array"
	KindMap         Kind = "map"
	KindNullable    Kind = "nullable"
	KindComposite   Kind = "composite"
	KindScalarUnion Kind = "scalar_union"
)

// Schema errors.
var (
	ErrTypeNotFound = errors.New("config type not found")
	ErrEmptyTypeKey = errors.New("config type key must not be empty")
	ErrUnknownKind  = errors.New("unknown config type kind")
)

// Type is the closed sum of config-type variants. Only types in this
// package implement it.
type Type interface {
	// Kind returns the variant's discriminator tag.
	Kind() Kind

	// TypeKey returns the unique key identifying this type in a Schema.
	TypeKey() string

	// TypeParamKeys returns the keys of the type's parameters: the inner
	// type of arrays and nullables, key and value types of maps, and both
	// arms of scalar unions. Scalars, enums, and composites have none;
	// composite children hang off Fields instead.
	TypeParamKeys() []string

	configType()
}

// Scalar is a leaf type such as Int, Float, String, or Bool.
type Scalar struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
	GivenName   string `json:"given_name"`
}

// EnumValue is one allowed value of an enum type.
type EnumValue struct {
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// Enum is a closed set of named scalar values.
type Enum struct {
	Key         string      `json:"key"`
	Description string      `json:"description,omitempty"`
	GivenName   string      `json:"given_name"`
	Values      []EnumValue `json:"values"`
}

// Array is a homogeneous list of an inner type.
type Array struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
	OfTypeKey   string `json:"of_type_key"`
}

// Map is a mapping from a key type to a value type. KeyLabelName optionally
// names the key for display ("instance name" rather than "String").
type Map struct {
	Key          string `json:"key"`
	Description  string `json:"description,omitempty"`
	KeyLabelName string `json:"key_label_name,omitempty"`
	KeyTypeKey   string `json:"key_type_key"`
	ValueTypeKey string `json:"value_type_key"`
}

// Nullable wraps an inner type whose value may be omitted.
type Nullable struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
	OfTypeKey   string `json:"of_type_key"`
}

// Field is one named entry of a composite type.
type Field struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TypeKey     string `json:"type_key"`
	IsRequired  bool   `json:"is_required"`
	DefaultJSON string `json:"default_json,omitempty"`
}

// Composite is a record of named fields. When IsSelector is set, exactly one
// field may be provided.
type Composite struct {
	Key         string  `json:"key"`
	Description string  `json:"description,omitempty"`
	IsSelector  bool    `json:"is_selector"`
	Fields      []Field `json:"fields"`
}

// ScalarUnion accepts either a scalar or a structured non-scalar form.
type ScalarUnion struct {
	Key              string `json:"key"`
	Description      string `json:"description,omitempty"`
	ScalarTypeKey    string `json:"scalar_type_key"`
	NonScalarTypeKey string `json:"non_scalar_type_key"`
}

func (Scalar) Kind() Kind      { return KindScalar }
func (Enum) Kind() Kind        { return KindEnum }
func (Array) Kind() Kind       { return KindArray }
func (Map) Kind() Kind         { return KindMap }
func (Nullable) Kind() Kind    { return KindNullable }
func (Composite) Kind() Kind   { return KindComposite }
func (ScalarUnion) Kind() Kind { return KindScalarUnion }

func (t Scalar) TypeKey() string      { return t.Key }
func (t Enum) TypeKey() string        { return t.Key }
func (t Array) TypeKey() string       { return t.Key }
func (t Map) TypeKey() string         { return t.Key }
func (t Nullable) TypeKey() string    { return t.Key }
func (t Composite) TypeKey() string   { return t.Key }
func (t ScalarUnion) TypeKey() string { return t.Key }

func (Scalar) TypeParamKeys() []string      { return nil }
func (Enum) TypeParamKeys() []string        { return nil }
func (t Array) TypeParamKeys() []string     { return []string{t.OfTypeKey} }
func (t Map) TypeParamKeys() []string       { return []string{t.KeyTypeKey, t.ValueTypeKey} }
func (t Nullable) TypeParamKeys() []string  { return []string{t.OfTypeKey} }
func (Composite) TypeParamKeys() []string   { return nil }
func (t ScalarUnion) TypeParamKeys() []string {
	return []string{t.ScalarTypeKey, t.NonScalarTypeKey}
}

func (Scalar) configType()      {}
func (Enum) configType()        {}
func (Array) configType()       {}
func (Map) configType()         {}
func (Nullable) configType()    {}
func (Composite) configType()   {}
func (ScalarUnion) configType() {}

// Schema holds every config type of a run-config snapshot, keyed by type
// key. Types reference each other by key, so a schema is a graph that may
// contain cycles (recursive config types).
type Schema map[string]Type

// Add inserts t under its type key, replacing any previous type with the
// same key. Returns ErrEmptyTypeKey if the key is empty.
func (s Schema) Add(t Type) error {
	if t.TypeKey() == "" {
		return ErrEmptyTypeKey
	}
	s[t.TypeKey()] = t
	return nil
}

// Resolve returns the type registered under key.
func (s Schema) Resolve(key string) (Type, error) {
	t, ok := s[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotFound, key)
	}
	return t, nil
}

// Walk visits the type registered under rootKey and every type reachable
// from it, depth first, calling fn once per type. Cycles are visited once.
// Referenced keys missing from the schema return ErrTypeNotFound; a
// non-nil error from fn stops the walk.
func (s Schema) Walk(rootKey string, fn func(Type) error) error {
	visited := make(map[string]bool)
	return s.walk(rootKey, visited, fn)
}

func (s Schema) walk(key string, visited map[string]bool, fn func(Type) error) error {
	if visited[key] {
		return nil
	}
	visited[key] = true

	t, err := s.Resolve(key)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}

	children := t.TypeParamKeys()
	if composite, ok := t.(Composite); ok {
		for _, field := range composite.Fields {
			children = append(children, field.TypeKey)
		}
	}

	for _, child := range children {
		if err := s.walk(child, visited, fn); err != nil {
			return err
		}
	}
	return nil
}
