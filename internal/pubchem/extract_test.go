package pubchem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textValue(s string) Value {
	return Value{StringWithMarkup: []StringWithMarkup{{String: s}}}
}

func iconValue(url, extra string) Value {
	return Value{StringWithMarkup: []StringWithMarkup{{
		Markup: []Markup{{Type: "Icon", URL: url, Extra: extra}},
	}}}
}

// hazardDoc builds a record with the full Safety and Hazards subtree
// the extractors descend through.
func hazardDoc() *Document {
	return &Document{Record: Record{
		RecordType:   "CID",
		RecordNumber: 702,
		RecordTitle:  "Ethanol",
		Section: []Section{
			{
				TOCHeading: "Chemical Safety",
				Information: []Information{
					{Name: "Chemical Safety", Value: iconValue("https://example.org/flame.svg", "Flammable")},
					{Name: "Chemical Safety", Value: iconValue("https://example.org/irritant.svg", "")},
				},
			},
			{
				TOCHeading: "Names and Identifiers",
				Section: []Section{
					{
						TOCHeading: "Record Description",
						Information: []Information{
							{Description: "Ontology Summary", Value: textValue("irrelevant")},
							{Description: "Hazards Summary", Value: textValue("Highly flammable liquid and vapor.")},
						},
					},
				},
			},
			{
				TOCHeading: "Safety and Hazards",
				Section: []Section{
					{
						TOCHeading: "Hazards Identification",
						Section: []Section{
							{
								TOCHeading: "GHS Classification",
								Information: []Information{
									{Name: "Signal", Value: textValue("Danger")},
									{
										Name: "GHS Hazard Statements",
										Value: Value{StringWithMarkup: []StringWithMarkup{
											{String: "Toxic if swallowed"},
											{String: "Contains 5% solvent"},
											{String: "Causes irritation"},
											{String: "0.1% impurity"},
										}},
									},
								},
							},
						},
					},
					{
						TOCHeading: "First Aid Measures",
						Information: []Information{
							{Name: "Inhalation First Aid", Value: textValue("Fresh air, rest.")},
							{Name: "Skin First Aid", Value: textValue("Rinse skin with plenty of water.")},
							{Value: textValue("entry without a name is skipped")},
							{Name: "Eye First Aid"},
						},
					},
					{
						TOCHeading: "Safety and Hazard Properties",
						Section: []Section{
							{
								TOCHeading: "Physical Dangers",
								Information: []Information{
									{Value: textValue("Vapour/air mixtures are explosive.")},
									{Value: textValue("")},
									{},
								},
							},
						},
					},
					{
						TOCHeading: "NFPA Hazard Classification",
						Information: []Information{
							{Name: "NFPA 704 Diamond", Value: iconValue("https://example.org/nfpa.svg", "")},
							{Name: "NFPA Health Rating", Value: textValue("2")},
						},
					},
				},
			},
		},
	}}
}

// casDoc places the CAS node at the fixed positional path the
// extractor reads: Section[2].Section[3].Section[0].
func casDoc(heading string) *Document {
	return &Document{Record: Record{
		Section: []Section{
			{TOCHeading: "Structures"},
			{TOCHeading: "Chemical Safety"},
			{
				TOCHeading: "Names and Identifiers",
				Section: []Section{
					{TOCHeading: "Record Description"},
					{TOCHeading: "Computed Descriptors"},
					{TOCHeading: "Molecular Formula"},
					{
						TOCHeading: "Other Identifiers",
						Section: []Section{
							{
								TOCHeading: heading,
								Information: []Information{
									{},
									{Name: "CAS", Value: textValue("64-17-5")},
								},
							},
						},
					},
				},
			},
		},
	}}
}

func TestExtractGHSInfo(t *testing.T) {
	ghs := ExtractGHSInfo(hazardDoc())

	assert.Equal(t, "Danger", ghs.SignalWord)
	require.Equal(t, []string{"Contains 5% solvent", "0.1% impurity"}, ghs.HazardStatements)
}

func TestExtractGHSInfoMissingSection(t *testing.T) {
	ghs := ExtractGHSInfo(&Document{})

	assert.Empty(t, ghs.SignalWord)
	assert.Empty(t, ghs.HazardStatements)
	assert.NotNil(t, ghs.HazardStatements)
}

func TestMissingSafetySectionYieldsEmptyFields(t *testing.T) {
	doc := &Document{Record: Record{
		RecordTitle: "Mystery",
		Section:     []Section{{TOCHeading: "Names and Identifiers"}},
	}}

	assert.Empty(t, ExtractPictograms(doc))
	assert.Empty(t, ExtractFirstAidMeasures(doc))
	assert.Empty(t, ExtractGHSInfo(doc).SignalWord)
	assert.Empty(t, ExtractGHSInfo(doc).HazardStatements)
	assert.Empty(t, ExtractPhysicalDangers(doc))
	assert.Empty(t, ExtractNFPADiamonds(doc))
}

func TestExtractCASNumber(t *testing.T) {
	assert.Equal(t, "64-17-5", ExtractCASNumber(casDoc("CAS")))
}

func TestExtractCASNumberWrongHeading(t *testing.T) {
	// The positional node exists but is not a CAS node; the guard
	// yields no CAS number rather than trusting the position.
	assert.Empty(t, ExtractCASNumber(casDoc("European Community (EC) Number")))
}

func TestExtractCASNumberShallowTree(t *testing.T) {
	assert.Empty(t, ExtractCASNumber(&Document{}))
	assert.Empty(t, ExtractCASNumber(&Document{Record: Record{
		Section: []Section{{}, {}, {TOCHeading: "Names and Identifiers"}},
	}}))
}

func TestExtractPictograms(t *testing.T) {
	icons := ExtractPictograms(hazardDoc())

	require.Len(t, icons, 2)
	assert.Equal(t, Icon{URL: "https://example.org/flame.svg", Description: "Flammable"}, icons[0])
	assert.Equal(t, "GHS Symbol", icons[1].Description)
}

func TestExtractNFPADiamonds(t *testing.T) {
	icons := ExtractNFPADiamonds(hazardDoc())

	require.Len(t, icons, 1)
	assert.Equal(t, "https://example.org/nfpa.svg", icons[0].URL)
	assert.Equal(t, "NFPA 704 Diamond Icon", icons[0].Description)
}

func TestExtractHazardsSummary(t *testing.T) {
	assert.Equal(t, "Highly flammable liquid and vapor.", ExtractHazardsSummary(hazardDoc()))
	assert.Empty(t, ExtractHazardsSummary(&Document{}))
}

func TestExtractFirstAidMeasures(t *testing.T) {
	measures := ExtractFirstAidMeasures(hazardDoc())

	require.Equal(t, []FirstAidMeasure{
		{Type: "Inhalation First Aid", Instruction: "Fresh air, rest."},
		{Type: "Skin First Aid", Instruction: "Rinse skin with plenty of water."},
	}, measures)
}

func TestExtractPhysicalDangers(t *testing.T) {
	assert.Equal(t, []string{"Vapour/air mixtures are explosive."}, ExtractPhysicalDangers(hazardDoc()))
}

func TestExtractRecordInfo(t *testing.T) {
	info := ExtractRecordInfo(hazardDoc())
	assert.Equal(t, RecordInfo{RecordType: "CID", RecordNumber: 702, RecordTitle: "Ethanol"}, info)

	assert.Equal(t, RecordInfo{}, ExtractRecordInfo(&Document{}))
}

func TestWeightUnmarshal(t *testing.T) {
	var quoted, bare Weight

	require.NoError(t, json.Unmarshal([]byte(`"46.07"`), &quoted))
	require.NoError(t, json.Unmarshal([]byte(`46.07`), &bare))

	assert.Equal(t, Weight(46.07), quoted)
	assert.Equal(t, Weight(46.07), bare)
}
