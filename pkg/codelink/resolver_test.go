package codelink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSet constructs a SourceLocationSet from ordered key/location pairs.
func buildSet(t *testing.T, pairs ...any) SourceLocationSet {
	t.Helper()
	require.Equal(t, 0, len(pairs)%2, "pairs must alternate key, location")
	var set SourceLocationSet
	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i].(string)
		loc := pairs[i+1].(SourceLocation)
		require.NoError(t, set.Add(key, loc))
	}
	return set
}

func TestResolveDefaultKeySelection(t *testing.T) {
	tests := []struct {
		name        string
		set         SourceLocationSet
		wantDefault string
	}{
		{
			name: "asset_definition wins regardless of other keys",
			set: buildSet(t,
				"op_definition", SourceLocation{FilePath: "x.py", LineNumber: 1},
				"asset_definition", SourceLocation{FilePath: "y.py", LineNumber: 2},
				"aardvark", SourceLocation{FilePath: "z.py", LineNumber: 3},
			),
			wantDefault: "asset_definition",
		},
		{
			name: "alphabetical fallback without asset_definition",
			set: buildSet(t,
				"zeta", SourceLocation{FilePath: "z.py", LineNumber: 9},
				"alpha", SourceLocation{FilePath: "a.py", LineNumber: 1},
			),
			wantDefault: "alpha",
		},
		{
			name: "single entry is the default",
			set: buildSet(t,
				"op_definition", SourceLocation{FilePath: "x.py", LineNumber: 1},
			),
			wantDefault: "op_definition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.set, Config{URLTemplate: DefaultURLTemplate})
			assert.Equal(t, tt.wantDefault, got.DefaultKey)
			assert.True(t, got.HasDefault())
		})
	}
}

func TestResolveEmptySet(t *testing.T) {
	got := Resolve(SourceLocationSet{}, Config{URLTemplate: DefaultURLTemplate})

	assert.False(t, got.HasDefault())
	assert.Empty(t, got.DefaultKey)
	assert.Empty(t, got.DefaultLink)
	assert.Empty(t, got.Alternates)
}

func TestResolveSubstitution(t *testing.T) {
	set := buildSet(t,
		"asset_definition", SourceLocation{FilePath: "/a/b.py", LineNumber: 42},
	)

	got := Resolve(set, Config{URLTemplate: "vscode://file/{FILE}:{LINE}"})

	assert.Equal(t, "vscode://file//a/b.py:42", got.DefaultLink)
}

func TestResolveSubstitutionRepeatsAndDefaults(t *testing.T) {
	tests := []struct {
		name     string
		template string
		loc      SourceLocation
		want     string
	}{
		{
			name:     "every occurrence replaced",
			template: "{FILE}#{LINE}-{LINE}?path={FILE}",
			loc:      SourceLocation{FilePath: "m.py", LineNumber: 7},
			want:     "m.py#7-7?path=m.py",
		},
		{
			name:     "missing line number renders as 0",
			template: "idea://open?file={FILE}&line={LINE}",
			loc:      SourceLocation{FilePath: "m.py"},
			want:     "idea://open?file=m.py&line=0",
		},
		{
			name:     "negative line number clamps to 0",
			template: "{LINE}",
			loc:      SourceLocation{FilePath: "m.py", LineNumber: -5},
			want:     "0",
		},
		{
			name:     "missing file path renders empty",
			template: "edit:{FILE}:{LINE}",
			loc:      SourceLocation{LineNumber: 3},
			want:     "edit::3",
		},
		{
			name:     "template without placeholders passes through",
			template: "https://example.com/static",
			loc:      SourceLocation{FilePath: "m.py", LineNumber: 3},
			want:     "https://example.com/static",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTemplate(tt.template, tt.loc))
		})
	}
}

func TestResolveAlternates(t *testing.T) {
	set := buildSet(t,
		"op_definition", SourceLocation{FilePath: "x.py", LineNumber: 1},
		"asset_definition", SourceLocation{FilePath: "y.py", LineNumber: 2},
	)

	got := Resolve(set, Config{URLTemplate: "{FILE}:{LINE}"})

	assert.Equal(t, "asset_definition", got.DefaultKey)
	assert.Equal(t, "y.py:2", got.DefaultLink)
	require.Len(t, got.Alternates, 1)
	assert.Equal(t, "op_definition", got.Alternates[0].Key)
	assert.Equal(t, "x.py:1", got.Alternates[0].Link)
}

func TestResolveAlternatesKeepInsertionOrder(t *testing.T) {
	set := buildSet(t,
		"zeta", SourceLocation{FilePath: "z.py", LineNumber: 1},
		"asset_definition", SourceLocation{FilePath: "a.py", LineNumber: 2},
		"beta", SourceLocation{FilePath: "b.py", LineNumber: 3},
	)

	got := Resolve(set, Config{URLTemplate: "{FILE}"})

	require.Len(t, got.Alternates, 2)
	assert.Equal(t, "zeta", got.Alternates[0].Key)
	assert.Equal(t, "beta", got.Alternates[1].Key)
}

func TestResolveAlternatesCoverNonDefaultKeysExactlyOnce(t *testing.T) {
	set := buildSet(t,
		"delta", SourceLocation{FilePath: "d.py", LineNumber: 4},
		"alpha", SourceLocation{FilePath: "a.py", LineNumber: 1},
		"gamma", SourceLocation{FilePath: "g.py", LineNumber: 3},
	)

	got := Resolve(set, Config{URLTemplate: "{FILE}"})

	assert.Equal(t, "alpha", got.DefaultKey)
	seen := map[string]int{}
	for _, alt := range got.Alternates {
		seen[alt.Key]++
	}
	assert.Equal(t, map[string]int{"delta": 1, "gamma": 1}, seen)
}

func TestResolveIsIdempotent(t *testing.T) {
	set := buildSet(t,
		"op_definition", SourceLocation{FilePath: "x.py", LineNumber: 1},
		"asset_definition", SourceLocation{FilePath: "y.py", LineNumber: 2},
	)
	cfg := Config{URLTemplate: DefaultURLTemplate}

	first := Resolve(set, cfg)
	second := Resolve(set, cfg)

	assert.Equal(t, first, second)
}

func TestSourceLocationSet(t *testing.T) {
	var set SourceLocationSet

	assert.ErrorIs(t, set.Add("", SourceLocation{}), ErrEmptyKey)
	assert.Equal(t, 0, set.Len())

	require.NoError(t, set.Add("a", SourceLocation{FilePath: "a.py", LineNumber: 1}))
	require.NoError(t, set.Add("b", SourceLocation{FilePath: "b.py", LineNumber: 2}))

	// Replacing a key keeps its position and updates the value.
	require.NoError(t, set.Add("a", SourceLocation{FilePath: "a2.py", LineNumber: 9}))
	assert.Equal(t, []string{"a", "b"}, set.Keys())
	loc, ok := set.Get("a")
	require.True(t, ok)
	assert.Equal(t, SourceLocation{FilePath: "a2.py", LineNumber: 9}, loc)

	_, ok = set.Get("missing")
	assert.False(t, ok)
}
