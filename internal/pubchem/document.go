// Package pubchem talks to the PubChem PUG REST and PUG View APIs and
// derives flat label fields from the deeply nested record document.
//
// PUG View organizes a compound record as a recursive tree of headed
// sections. Every lookup into that tree is a "find child by heading"
// step that may come up empty; extraction treats any missing link as
// "no data" for the field, never as an error.
package pubchem

import (
	"strconv"
	"strings"
)

// Document is the top-level PUG View record response.
type Document struct {
	Record Record `json:"Record"`
}

// Record carries the record identifiers and the section tree.
type Record struct {
	RecordType   string    `json:"RecordType,omitempty"`
	RecordNumber int       `json:"RecordNumber,omitempty"`
	RecordTitle  string    `json:"RecordTitle,omitempty"`
	Section      []Section `json:"Section,omitempty"`
}

// Section is one headed node of the tree. It may hold child sections,
// an information list, or both.
type Section struct {
	TOCHeading  string        `json:"TOCHeading,omitempty"`
	Description string        `json:"Description,omitempty"`
	Section     []Section     `json:"Section,omitempty"`
	Information []Information `json:"Information,omitempty"`
}

// Information is a single entry in a section's information list.
type Information struct {
	Name        string `json:"Name,omitempty"`
	Description string `json:"Description,omitempty"`
	Value       Value  `json:"Value,omitempty"`
}

// Value holds the structured text of an information entry.
type Value struct {
	StringWithMarkup []StringWithMarkup `json:"StringWithMarkup,omitempty"`
}

// StringWithMarkup is a text fragment with optional embedded markup
// objects (icons carry a URL and auxiliary caption text).
type StringWithMarkup struct {
	String string   `json:"String,omitempty"`
	Markup []Markup `json:"Markup,omitempty"`
}

// Markup is an inline annotation on a text fragment.
type Markup struct {
	Start  int    `json:"Start,omitempty"`
	Length int    `json:"Length,omitempty"`
	Type   string `json:"Type,omitempty"`
	URL    string `json:"URL,omitempty"`
	Extra  string `json:"Extra,omitempty"`
}

const markupTypeIcon = "Icon"

// findSection returns the first section with the given heading.
func findSection(sections []Section, heading string) (*Section, bool) {
	for i := range sections {
		if sections[i].TOCHeading == heading {
			return &sections[i], true
		}
	}
	return nil, false
}

// TopLevel finds a top-level section of the record by heading.
func (r *Record) TopLevel(heading string) (*Section, bool) {
	return findSection(r.Section, heading)
}

// Child finds a direct child section by heading.
func (s *Section) Child(heading string) (*Section, bool) {
	if s == nil {
		return nil, false
	}
	return findSection(s.Section, heading)
}

// ChildAt returns the i-th child section, if present.
func (s *Section) ChildAt(i int) (*Section, bool) {
	if s == nil || i < 0 || i >= len(s.Section) {
		return nil, false
	}
	return &s.Section[i], true
}

// FirstString returns the entry's first text value.
func (in Information) FirstString() (string, bool) {
	if len(in.Value.StringWithMarkup) == 0 {
		return "", false
	}
	return in.Value.StringWithMarkup[0].String, true
}

// Icons collects every icon-type markup object in the entry's value,
// using defaultCaption when the markup carries no caption of its own.
func (in Information) Icons(defaultCaption string) []Icon {
	var icons []Icon
	for _, swm := range in.Value.StringWithMarkup {
		for _, m := range swm.Markup {
			if m.Type == markupTypeIcon && m.URL != "" {
				caption := m.Extra
				if caption == "" {
					caption = defaultCaption
				}
				icons = append(icons, Icon{URL: m.URL, Description: caption})
			}
		}
	}
	return icons
}

// Weight tolerates PubChem returning molecular weight either as a JSON
// number or as a quoted decimal string (the property table has shipped
// both over the years).
type Weight float64

func (w *Weight) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*w = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*w = Weight(f)
	return nil
}
