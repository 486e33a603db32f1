package configtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSchema builds a small run-config schema:
//
//	resources (composite) -> io_manager (composite) -> path (nullable String)
//	                                                -> mode (enum)
//	retries (scalar union: Int | retry_policy composite)
func testSchema(t *testing.T) Schema {
	t.Helper()
	s := Schema{}
	types := []Type{
		Scalar{Key: "String", GivenName: "String"},
		Scalar{Key: "Int", GivenName: "Int"},
		Enum{Key: "mode", GivenName: "Mode", Values: []EnumValue{
			{Value: "overwrite"},
			{Value: "append", Description: "append to existing data"},
		}},
		Nullable{Key: "nullable.String", OfTypeKey: "String"},
		Composite{Key: "io_manager", Fields: []Field{
			{Name: "path", TypeKey: "nullable.String"},
			{Name: "mode", TypeKey: "mode", IsRequired: true},
		}},
		Composite{Key: "resources", Fields: []Field{
			{Name: "io_manager", TypeKey: "io_manager", IsRequired: true},
		}},
		Composite{Key: "retry_policy", Fields: []Field{
			{Name: "max_retries", TypeKey: "Int", IsRequired: true},
		}},
		ScalarUnion{Key: "retries", ScalarTypeKey: "Int", NonScalarTypeKey: "retry_policy"},
	}
	for _, typ := range types {
		require.NoError(t, s.Add(typ))
	}
	return s
}

func TestSchemaResolve(t *testing.T) {
	s := testSchema(t)

	typ, err := s.Resolve("io_manager")
	require.NoError(t, err)
	assert.Equal(t, KindComposite, typ.Kind())
	assert.Equal(t, "io_manager", typ.TypeKey())

	_, err = s.Resolve("missing")
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestSchemaAddRejectsEmptyKey(t *testing.T) {
	s := Schema{}
	assert.ErrorIs(t, s.Add(Scalar{GivenName: "String"}), ErrEmptyTypeKey)
}

func TestTypeParamKeys(t *testing.T) {
	assert.Nil(t, Scalar{Key: "Int"}.TypeParamKeys())
	assert.Equal(t, []string{"Int"}, Array{Key: "a", OfTypeKey: "Int"}.TypeParamKeys())
	assert.Equal(t, []string{"Int"}, Nullable{Key: "n", OfTypeKey: "Int"}.TypeParamKeys())
	assert.Equal(t,
		[]string{"String", "Int"},
		Map{Key: "m", KeyTypeKey: "String", ValueTypeKey: "Int"}.TypeParamKeys())
	assert.Equal(t,
		[]string{"Int", "retry_policy"},
		ScalarUnion{Key: "r", ScalarTypeKey: "Int", NonScalarTypeKey: "retry_policy"}.TypeParamKeys())
}

func TestSchemaWalk(t *testing.T) {
	s := testSchema(t)

	var visited []string
	err := s.Walk("resources", func(typ Type) error {
		visited = append(visited, typ.TypeKey())
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"resources", "io_manager", "nullable.String", "String", "mode"}, visited)
}

func TestSchemaWalkToleratesCycles(t *testing.T) {
	s := Schema{}
	require.NoError(t, s.Add(Composite{Key: "node", Fields: []Field{
		{Name: "children", TypeKey: "node_list", IsRequired: true},
	}}))
	require.NoError(t, s.Add(Array{Key: "node_list", OfTypeKey: "node"}))

	count := 0
	err := s.Walk("node", func(Type) error {
		count++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSchemaWalkMissingReference(t *testing.T) {
	s := Schema{}
	require.NoError(t, s.Add(Array{Key: "list", OfTypeKey: "gone"}))

	err := s.Walk("list", func(Type) error { return nil })
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestTypeCodec(t *testing.T) {
	original := Enum{
		Key:       "mode",
		GivenName: "Mode",
		Values:    []EnumValue{{Value: "overwrite"}, {Value: "append"}},
	}

	data, err := MarshalType(original)
	require.NoError(t, err)

	got, err := UnmarshalType(data)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestUnmarshalTypeUnknownKind(t *testing.T) {
	_, err := UnmarshalType([]byte(`{"kind":"tensor","key":"t"}`))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSchemaCodec(t *testing.T) {
	original := testSchema(t)

	data, err := original.MarshalJSON()
	require.NoError(t, err)

	var got Schema
	require.NoError(t, got.UnmarshalJSON(data))
	assert.Equal(t, original, got)
}
