// Package codelink resolves navigable editor links for the source-code
// locations attached to an asset definition. Given a set of named locations
// and a URL template, it selects a primary location and derives a link for
// it plus a link for every remaining location.
package codelink

import (
	"errors"
	"strconv"
	"strings"
)

// KeyAssetDefinition is the location key preferred as the default when
// present in a set. All other keys are ranked alphabetically.
const KeyAssetDefinition = "asset_definition"

// Template placeholder tokens. Every occurrence is replaced.
const (
	PlaceholderFile = "{FILE}"
	PlaceholderLine = "{LINE}"
)

// DefaultURLTemplate opens the location in VS Code.
const DefaultURLTemplate = "vscode://file/{FILE}:{LINE}"

// ErrEmptyKey is returned by SourceLocationSet.Add for an empty key.
var ErrEmptyKey = errors.New("source location key must not be empty")

// SourceLocation identifies where in source code a conceptual entity
// (an asset or op definition) is defined.
type SourceLocation struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"` // 1-based; 0 when unknown.
}

// SourceLocationSet maps unique keys (semantic origins such as
// "asset_definition" or "op_definition") to source locations, preserving
// insertion order. The zero value is an empty set ready for use.
type SourceLocationSet struct {
	keys  []string
	byKey map[string]SourceLocation
}

// Add inserts or replaces the location for key. Replacing an existing key
// keeps its original position. Returns ErrEmptyKey for an empty key.
func (s *SourceLocationSet) Add(key string, loc SourceLocation) error {
	if key == "" {
		return ErrEmptyKey
	}
	if s.byKey == nil {
		s.byKey = make(map[string]SourceLocation)
	}
	if _, ok := s.byKey[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.byKey[key] = loc
	return nil
}

// Get returns the location for key and whether it is present.
func (s *SourceLocationSet) Get(key string) (SourceLocation, bool) {
	loc, ok := s.byKey[key]
	return loc, ok
}

// Len returns the number of locations in the set.
func (s *SourceLocationSet) Len() int {
	return len(s.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (s *SourceLocationSet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Config holds the one configurable input of the resolver: the URL pattern
// whose {FILE} and {LINE} tokens are replaced to form a concrete link.
// The template is trusted configuration; substitution is literal text
// replacement with no escaping.
type Config struct {
	URLTemplate string
}

// Alternate pairs a non-default location key with its resolved link.
type Alternate struct {
	Key  string `json:"key"`
	Link string `json:"link"`
}

// ResolvedLinks is the output of Resolve: the primary clickable target and
// the remaining locations as secondary targets. DefaultKey and DefaultLink
// are empty when the input set was empty.
type ResolvedLinks struct {
	DefaultKey  string      `json:"default_key,omitempty"`
	DefaultLink string      `json:"default_link,omitempty"`
	Alternates  []Alternate `json:"alternates,omitempty"`
}

// HasDefault reports whether a primary target exists.
func (r ResolvedLinks) HasDefault() bool {
	return r.DefaultKey != ""
}

// Resolve selects the default location in sources and builds links for it
// and for every other location. Pure function of its inputs.
//
// Default selection: "asset_definition" when present, otherwise the
// lexicographically smallest key (byte order). The alphabetical fallback is
// a presentation convenience, not a semantic ranking. An empty set yields
// no default and no alternates.
//
// Alternates keep the set's insertion order rather than sorted order.
func Resolve(sources SourceLocationSet, cfg Config) ResolvedLinks {
	if sources.Len() == 0 {
		return ResolvedLinks{}
	}

	defaultKey := KeyAssetDefinition
	if _, ok := sources.Get(KeyAssetDefinition); !ok {
		for i, k := range sources.keys {
			if i == 0 || k < defaultKey {
				defaultKey = k
			}
		}
	}

	defaultLoc, _ := sources.Get(defaultKey)
	result := ResolvedLinks{
		DefaultKey:  defaultKey,
		DefaultLink: ExpandTemplate(cfg.URLTemplate, defaultLoc),
	}

	for _, key := range sources.keys {
		if key == defaultKey {
			continue
		}
		loc := sources.byKey[key]
		result.Alternates = append(result.Alternates, Alternate{
			Key:  key,
			Link: ExpandTemplate(cfg.URLTemplate, loc),
		})
	}
	return result
}

// ExpandTemplate replaces every {FILE} token in template with the location's
// file path and every {LINE} token with its decimal line number. A negative
// line number substitutes as 0. Templates without placeholders pass through
// unchanged.
func ExpandTemplate(template string, loc SourceLocation) string {
	line := loc.LineNumber
	if line < 0 {
		line = 0
	}
	out := strings.ReplaceAll(template, PlaceholderFile, loc.FilePath)
	return strings.ReplaceAll(out, PlaceholderLine, strconv.Itoa(line))
}
