// Code-reference metadata: pointers from an asset definition to the source
// code that defines it. A code_references entry carries local file references
// (file path plus line number) and URL references (a code host link).
package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/petrel-data/codelink/pkg/codelink"
)

// Code reference type tags used in the JSON representation.
const (
	CodeReferenceLocalFile = "local_file"
	CodeReferenceURL       = "url"
)

// CodeReference is the closed sum of code-reference variants. Only
// LocalFileCodeReference and URLCodeReference implement it.
type CodeReference interface {
	// ReferenceType returns the variant's type tag.
	ReferenceType() string

	codeReference()
}

// LocalFileCodeReference points at a file path and line number on the
// machine hosting the definition.
type LocalFileCodeReference struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number,omitempty"` // 1-based; 0 when unknown.
	Label      string `json:"label,omitempty"`
}

// URLCodeReference points at source code hosted behind a URL.
type URLCodeReference struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

func (LocalFileCodeReference) ReferenceType() string { return CodeReferenceLocalFile }
func (URLCodeReference) ReferenceType() string       { return CodeReferenceURL }

func (LocalFileCodeReference) codeReference() {}
func (URLCodeReference) codeReference()       {}

// CodeReferencesValue holds the code references attached to a definition.
type CodeReferencesValue struct {
	References []CodeReference
}

// LocationSet collects the local file references into a source location set
// keyed by label, in reference order. References with empty labels and URL
// references are skipped; the resolver has no file or line to substitute
// for them.
func (v CodeReferencesValue) LocationSet() codelink.SourceLocationSet {
	var set codelink.SourceLocationSet
	for _, ref := range v.References {
		local, ok := ref.(LocalFileCodeReference)
		if !ok || local.Label == "" {
			continue
		}
		_ = set.Add(local.Label, codelink.SourceLocation{
			FilePath:   local.FilePath,
			LineNumber: local.LineNumber,
		})
	}
	return set
}

// codeReferenceJSON is the wire shape of one code reference, with a type tag
// discriminating the variant.
type codeReferenceJSON struct {
	Type       string `json:"type"`
	FilePath   string `json:"file_path,omitempty"`
	LineNumber int    `json:"line_number,omitempty"`
	URL        string `json:"url,omitempty"`
	Label      string `json:"label,omitempty"`
}

// MarshalJSON writes the references with their type tags.
func (v CodeReferencesValue) MarshalJSON() ([]byte, error) {
	refs := make([]codeReferenceJSON, 0, len(v.References))
	for _, ref := range v.References {
		switch r := ref.(type) {
		case LocalFileCodeReference:
			refs = append(refs, codeReferenceJSON{
				Type:       CodeReferenceLocalFile,
				FilePath:   r.FilePath,
				LineNumber: r.LineNumber,
				Label:      r.Label,
			})
		case URLCodeReference:
			refs = append(refs, codeReferenceJSON{
				Type:  CodeReferenceURL,
				URL:   r.URL,
				Label: r.Label,
			})
		}
	}
	return json.Marshal(struct {
		References []codeReferenceJSON `json:"code_references"`
	}{References: refs})
}

// UnmarshalJSON reads references by their type tags. An unrecognized type
// tag is an error rather than a silent skip.
func (v *CodeReferencesValue) UnmarshalJSON(data []byte) error {
	var wire struct {
		References []codeReferenceJSON `json:"code_references"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	v.References = nil
	for _, ref := range wire.References {
		switch ref.Type {
		case CodeReferenceLocalFile:
			v.References = append(v.References, LocalFileCodeReference{
				FilePath:   ref.FilePath,
				LineNumber: ref.LineNumber,
				Label:      ref.Label,
			})
		case CodeReferenceURL:
			v.References = append(v.References, URLCodeReference{
				URL:   ref.URL,
				Label: ref.Label,
			})
		default:
			return fmt.Errorf("unknown code reference type %q", ref.Type)
		}
	}
	return nil
}
