package pubchem

import "regexp"

// Section headings the extractors descend through. These are exact
// matches against PUG View's table of contents.
const (
	headingChemicalSafety       = "Chemical Safety"
	headingNamesAndIdentifiers  = "Names and Identifiers"
	headingRecordDescription    = "Record Description"
	headingSafetyAndHazards     = "Safety and Hazards"
	headingFirstAidMeasures     = "First Aid Measures"
	headingHazardsIdent         = "Hazards Identification"
	headingGHSClassification    = "GHS Classification"
	headingHazardProperties     = "Safety and Hazard Properties"
	headingPhysicalDangers      = "Physical Dangers"
	headingNFPAClassification   = "NFPA Hazard Classification"
	headingCAS                  = "CAS"
	descriptionHazardsSummary   = "Hazards Summary"
	informationSignal           = "Signal"
	informationHazardStatements = "GHS Hazard Statements"
	informationNFPADiamond      = "NFPA 704 Diamond"

	defaultGHSCaption  = "GHS Symbol"
	defaultNFPACaption = "NFPA 704 Diamond Icon"
)

// percentPattern keeps only hazard statements that carry a
// concentration figure, e.g. "Contains 5% solvent". Statements
// without one are discarded, matching the behavior of the label
// generator this service replaces.
var percentPattern = regexp.MustCompile(`\d+(\.\d+)?%`)

// Icon is an extracted pictogram reference.
type Icon struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// FirstAidMeasure pairs a category label with its instruction text.
type FirstAidMeasure struct {
	Type        string `json:"type"`
	Instruction string `json:"instruction"`
}

// GHSInfo carries the GHS signal word and the filtered hazard
// statements.
type GHSInfo struct {
	SignalWord       string   `json:"signalWord,omitempty"`
	HazardStatements []string `json:"hazardStatements"`
}

// RecordInfo is the record's top-level identifiers. An absent record
// root yields the zero value.
type RecordInfo struct {
	RecordType   string `json:"recordType"`
	RecordNumber int    `json:"recordNumber"`
	RecordTitle  string `json:"recordTitle"`
}

// ExtractRecordInfo reads the record identifiers off the document root.
func ExtractRecordInfo(doc *Document) RecordInfo {
	return RecordInfo{
		RecordType:   doc.Record.RecordType,
		RecordNumber: doc.Record.RecordNumber,
		RecordTitle:  doc.Record.RecordTitle,
	}
}

// ExtractCASNumber reads the CAS registry number from its fixed
// positional path: third top-level section, fourth sub-section, first
// sub-sub-section. The node is only trusted if its heading literally
// reads "CAS"; if PubChem ever reorders the tree this silently yields
// no CAS number.
func ExtractCASNumber(doc *Document) string {
	root := Section{Section: doc.Record.Section}
	level1, ok := root.ChildAt(2)
	if !ok {
		return ""
	}
	level2, ok := level1.ChildAt(3)
	if !ok {
		return ""
	}
	casSection, ok := level2.ChildAt(0)
	if !ok || casSection.TOCHeading != headingCAS {
		return ""
	}
	for _, info := range casSection.Information {
		if s, ok := info.FirstString(); ok {
			return s
		}
	}
	return ""
}

// ExtractPictograms collects every GHS pictogram icon found under the
// "Chemical Safety" top-level section.
func ExtractPictograms(doc *Document) []Icon {
	var icons []Icon
	section, ok := doc.Record.TopLevel(headingChemicalSafety)
	if !ok {
		return icons
	}
	for _, info := range section.Information {
		icons = append(icons, info.Icons(defaultGHSCaption)...)
	}
	return icons
}

// ExtractHazardsSummary returns the prose hazards summary, when the
// record description carries one.
func ExtractHazardsSummary(doc *Document) string {
	names, ok := doc.Record.TopLevel(headingNamesAndIdentifiers)
	if !ok {
		return ""
	}
	desc, ok := names.Child(headingRecordDescription)
	if !ok {
		return ""
	}
	for _, info := range desc.Information {
		if info.Description != descriptionHazardsSummary {
			continue
		}
		if s, ok := info.FirstString(); ok {
			return s
		}
	}
	return ""
}

// ExtractFirstAidMeasures returns one measure per information entry
// that carries both a category name and an instruction text.
func ExtractFirstAidMeasures(doc *Document) []FirstAidMeasure {
	var measures []FirstAidMeasure
	safety, ok := doc.Record.TopLevel(headingSafetyAndHazards)
	if !ok {
		return measures
	}
	firstAid, ok := safety.Child(headingFirstAidMeasures)
	if !ok {
		return measures
	}
	for _, info := range firstAid.Information {
		if info.Name == "" {
			continue
		}
		if s, ok := info.FirstString(); ok {
			measures = append(measures, FirstAidMeasure{
				Type:        info.Name,
				Instruction: s,
			})
		}
	}
	return measures
}

// ExtractGHSInfo reads the signal word and the percentage-bearing
// hazard statements from the GHS classification section.
func ExtractGHSInfo(doc *Document) GHSInfo {
	ghs := GHSInfo{HazardStatements: []string{}}

	safety, ok := doc.Record.TopLevel(headingSafetyAndHazards)
	if !ok {
		return ghs
	}
	ident, ok := safety.Child(headingHazardsIdent)
	if !ok {
		return ghs
	}
	classification, ok := ident.Child(headingGHSClassification)
	if !ok {
		return ghs
	}

	for _, info := range classification.Information {
		switch info.Name {
		case informationSignal:
			if s, ok := info.FirstString(); ok {
				ghs.SignalWord = s
			}
		case informationHazardStatements:
			for _, swm := range info.Value.StringWithMarkup {
				if percentPattern.MatchString(swm.String) {
					ghs.HazardStatements = append(ghs.HazardStatements, swm.String)
				}
			}
		}
	}
	return ghs
}

// ExtractPhysicalDangers returns the first text value of every entry
// under "Physical Dangers", dropping empty results.
func ExtractPhysicalDangers(doc *Document) []string {
	var dangers []string
	safety, ok := doc.Record.TopLevel(headingSafetyAndHazards)
	if !ok {
		return dangers
	}
	properties, ok := safety.Child(headingHazardProperties)
	if !ok {
		return dangers
	}
	physical, ok := properties.Child(headingPhysicalDangers)
	if !ok {
		return dangers
	}
	for _, info := range physical.Information {
		if s, ok := info.FirstString(); ok && s != "" {
			dangers = append(dangers, s)
		}
	}
	return dangers
}

// ExtractNFPADiamonds collects NFPA 704 diamond icons from the NFPA
// classification section.
func ExtractNFPADiamonds(doc *Document) []Icon {
	var icons []Icon
	safety, ok := doc.Record.TopLevel(headingSafetyAndHazards)
	if !ok {
		return icons
	}
	nfpa, ok := safety.Child(headingNFPAClassification)
	if !ok {
		return icons
	}
	for _, info := range nfpa.Information {
		if info.Name != informationNFPADiamond {
			continue
		}
		icons = append(icons, info.Icons(defaultNFPACaption)...)
	}
	return icons
}
