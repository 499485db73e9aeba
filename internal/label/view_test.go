package label

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemlabel/backend/internal/compound"
	"github.com/chemlabel/backend/internal/pubchem"
)

func renderedDoc(t *testing.T, st State) *goquery.Document {
	t.Helper()
	html, err := RenderView(st)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	require.NoError(t, err)
	return doc
}

func ethanolSummary() *compound.Summary {
	return &compound.Summary{
		CID:              702,
		IUPACName:        "ethanol",
		MolecularFormula: "C2H6O",
		MolecularWeight:  46.07,
		CanonicalSMILES:  "CCO",
		CommonName:       "Grain alcohol",
		CASNumber:        "64-17-5",
		HazardInformation: []pubchem.Icon{
			{URL: "https://example.org/flame.svg", Description: "Flammable"},
		},
		FirstAidMeasures: []pubchem.FirstAidMeasure{
			{Type: "Skin First Aid", Instruction: "Rinse with water."},
		},
		GHSInfo: pubchem.GHSInfo{
			SignalWord:       "Danger",
			HazardStatements: []string{"Contains 10% ethanol"},
		},
		TopLevelInfo:    pubchem.RecordInfo{RecordType: "CID", RecordNumber: 702, RecordTitle: "Ethanol"},
		PhysicalDangers: []string{"Vapour/air mixtures are explosive."},
	}
}

func TestRenderViewCard(t *testing.T) {
	st := NewState()
	st.Summary = ethanolSummary()
	doc := renderedDoc(t, st)

	assert.Equal(t, "Ethanol", doc.Find(".record-title").Text())
	assert.Equal(t, "Danger", doc.Find(".chip.chip-danger").Text())
	assert.Equal(t, len(FieldKeys), doc.Find(".label-field").Length())
	assert.Equal(t, 1, doc.Find(".pictograms img").Length())
	assert.Equal(t, "Contains 10% ethanol", doc.Find(".hazard-statements li").Text())
	assert.Contains(t, doc.Find(".first-aid li").Text(), "Rinse with water.")
	assert.Equal(t, "Vapour/air mixtures are explosive.", doc.Find(".physical-dangers li").Text())
}

func TestRenderViewFieldDefaults(t *testing.T) {
	st := NewState()
	st.Summary = ethanolSummary()
	doc := renderedDoc(t, st)

	row := doc.Find(`.label-field[data-field="mfg"]`)
	require.Equal(t, 1, row.Length())
	assert.Equal(t, "-/-/-", row.Find(".field-value").Text())
	assert.Equal(t, 0, row.Find("input").Length())
}

func TestRenderViewEditingField(t *testing.T) {
	st := NewState().SetField(FieldManufacturer, "Acme").ToggleEdit(FieldManufacturer)
	st.Summary = ethanolSummary()
	doc := renderedDoc(t, st)

	input := doc.Find(`.label-field[data-field="manufacturer"] input`)
	require.Equal(t, 1, input.Length())
	value, _ := input.Attr("value")
	assert.Equal(t, "Acme", value)
}

func TestRenderViewWarningTone(t *testing.T) {
	st := NewState()
	st.Summary = ethanolSummary()
	st.Summary.GHSInfo.SignalWord = "Warning"

	doc := renderedDoc(t, st)
	assert.Equal(t, 1, doc.Find(".chip.chip-warning").Length())
}

func TestRenderViewNoSummary(t *testing.T) {
	doc := renderedDoc(t, NewState())

	assert.Equal(t, 0, doc.Find(".printable-card").Length())
	assert.Equal(t, 0, doc.Find(".lookup-error").Length())
}

func TestRenderViewError(t *testing.T) {
	st := NewState()
	st.Error = ErrLookupFailed

	doc := renderedDoc(t, st)
	assert.Equal(t, ErrLookupFailed, doc.Find(".lookup-error").Text())
}
