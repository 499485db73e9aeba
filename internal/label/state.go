// Package label holds the presenter side of the system: per-session
// label state, the editable field set, and the printable label view.
//
// State is an immutable value; every update returns a new State. That
// keeps the presenter's behavior deterministic and testable without a
// rendering environment.
package label

import (
	"strings"

	"github.com/chemlabel/backend/internal/compound"
)

// FieldKey names one user-editable label field.
type FieldKey string

const (
	FieldManufacturer FieldKey = "manufacturer"
	FieldAddress      FieldKey = "address"
	FieldMfg          FieldKey = "mfg"
	FieldSize         FieldKey = "size"
	FieldNote         FieldKey = "note"
)

// FieldKeys lists the editable fields in display order.
var FieldKeys = []FieldKey{
	FieldManufacturer,
	FieldAddress,
	FieldMfg,
	FieldSize,
	FieldNote,
}

// ValidField reports whether name is a known editable field.
func ValidField(name string) bool {
	for _, k := range FieldKeys {
		if string(k) == name {
			return true
		}
	}
	return false
}

// Fields is the user-editable label field set. It is never derived
// from PubChem and accepts any string without validation.
type Fields struct {
	Manufacturer string `json:"manufacturer"`
	Address      string `json:"address"`
	Mfg          string `json:"mfg"`
	Size         string `json:"size"`
	Note         string `json:"note"`
}

// DefaultFields returns the placeholder values shown before the user
// edits anything.
func DefaultFields() Fields {
	return Fields{
		Manufacturer: "-",
		Address:      "-",
		Mfg:          "-/-/-",
		Size:         "-",
		Note:         "-",
	}
}

// Get returns the value of one field.
func (f Fields) Get(key FieldKey) string {
	switch key {
	case FieldManufacturer:
		return f.Manufacturer
	case FieldAddress:
		return f.Address
	case FieldMfg:
		return f.Mfg
	case FieldSize:
		return f.Size
	case FieldNote:
		return f.Note
	}
	return ""
}

func (f Fields) with(key FieldKey, value string) Fields {
	switch key {
	case FieldManufacturer:
		f.Manufacturer = value
	case FieldAddress:
		f.Address = value
	case FieldMfg:
		f.Mfg = value
	case FieldSize:
		f.Size = value
	case FieldNote:
		f.Note = value
	}
	return f
}

// ErrLookupFailed is the inline error text shown when a lookup fails.
// A failed lookup never clears previously displayed data.
const ErrLookupFailed = "Failed to fetch data. Please try again."

// State is the presenter's complete session state.
type State struct {
	CID     string            `json:"cid"`
	Summary *compound.Summary `json:"summary"`
	Error   string            `json:"error"`
	Loading bool              `json:"loading"`
	Fields  Fields            `json:"fields"`
	Editing map[FieldKey]bool `json:"editing"`
}

// NewState returns the initial presenter state.
func NewState() State {
	editing := make(map[FieldKey]bool, len(FieldKeys))
	for _, k := range FieldKeys {
		editing[k] = false
	}
	return State{
		Fields:  DefaultFields(),
		Editing: editing,
	}
}

// WithCID records the current CID input.
func (s State) WithCID(cid string) State {
	s.CID = cid
	return s
}

// StartLookup marks the state as loading and clears any prior error.
func (s State) StartLookup() State {
	s.Loading = true
	s.Error = ""
	return s
}

// FinishLookup applies a lookup outcome. On success the summary is
// replaced; on failure the error message is set and whatever summary
// was on screen stays there.
func (s State) FinishLookup(summary *compound.Summary, err error) State {
	s.Loading = false
	if err != nil {
		s.Error = ErrLookupFailed
		return s
	}
	s.Error = ""
	s.Summary = summary
	return s
}

// ToggleEdit flips one field between display and edit mode.
func (s State) ToggleEdit(key FieldKey) State {
	editing := make(map[FieldKey]bool, len(s.Editing))
	for k, v := range s.Editing {
		editing[k] = v
	}
	editing[key] = !editing[key]
	s.Editing = editing
	return s
}

// SetField overwrites one field's value. Any string is accepted.
func (s State) SetField(key FieldKey, value string) State {
	s.Fields = s.Fields.with(key, value)
	return s
}

// Badge tones for the signal-word chip.
const (
	ToneWarning = "warning"
	ToneDanger  = "danger"
	ToneDefault = "default"
)

// BadgeTone maps a GHS signal word to a chip tone. Only "warning" and
// "danger" are recognized, case-insensitively; everything else,
// including an absent word, renders neutral.
func BadgeTone(signalWord string) string {
	switch strings.ToLower(signalWord) {
	case "warning":
		return ToneWarning
	case "danger":
		return ToneDanger
	}
	return ToneDefault
}
