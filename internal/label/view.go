package label

import (
	"bytes"
	"html/template"
	"strings"
)

// viewTemplate is the printable label card. It mirrors the card layout
// of the original web UI closely enough that a stylesheet can target
// the same class names.
var viewTemplate = template.Must(template.New("label").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.PageTitle}}</title></head>
<body>
{{if .Error}}<p class="lookup-error">{{.Error}}</p>{{end}}
{{if .Summary}}
<div class="printable-card">
  <header class="card-header">
    <h1 class="record-title">{{.Summary.TopLevelInfo.RecordTitle}}</h1>
    {{if .Summary.GHSInfo.SignalWord}}<span class="chip chip-{{.Tone}}">{{.Summary.GHSInfo.SignalWord}}</span>{{end}}
  </header>
  <div class="card-body">
    <p class="identifier"><strong>IUPAC:</strong> {{.Summary.IUPACName}}</p>
    <p class="identifier"><strong>Pub Number:</strong> {{.Summary.TopLevelInfo.RecordNumber}}</p>
    <p class="identifier"><strong>CAS Number:</strong> {{.Summary.CASNumber}}</p>
    <p class="identifier"><strong>Common Name:</strong> {{.Summary.CommonName}}</p>
    <p class="identifier"><strong>Molecular Formula:</strong> {{.Summary.MolecularFormula}}</p>
    <p class="identifier"><strong>Molecular Weight:</strong> {{.Summary.MolecularWeight}} g/mol</p>
    <p class="identifier"><strong>SMILES Notation:</strong> {{.Summary.CanonicalSMILES}}</p>
    {{if .Summary.HazardsSummary}}<p class="hazards-summary">{{.Summary.HazardsSummary}}</p>{{end}}
    <div class="label-fields">
      {{range .FieldRows}}
      <div class="label-field" data-field="{{.Key}}">
        <strong>{{.Label}}</strong>
        {{if .Editing}}<input type="text" name="{{.Key}}" value="{{.Value}}">{{else}}<p class="field-value">{{.Value}}</p>{{end}}
      </div>
      {{end}}
    </div>
    {{if .Summary.PhysicalDangers}}
    <p><strong>Physical Dangers:</strong></p>
    <ul class="physical-dangers">
      {{range .Summary.PhysicalDangers}}<li>{{.}}</li>{{end}}
    </ul>
    {{end}}
    {{if .Summary.HazardInformation}}
    <p><strong>Hazard Information</strong></p>
    <div class="pictograms">
      {{range .Summary.HazardInformation}}
      <figure class="pictogram">
        <img src="{{.URL}}" alt="{{.Description}}" width="70" height="70">
        <figcaption>{{.Description}}</figcaption>
      </figure>
      {{end}}
    </div>
    {{end}}
    {{if .Summary.NFPADiamonds}}
    <div class="nfpa-diamonds">
      {{range .Summary.NFPADiamonds}}
      <figure class="pictogram">
        <img src="{{.URL}}" alt="{{.Description}}" width="70" height="70">
        <figcaption>{{.Description}}</figcaption>
      </figure>
      {{end}}
    </div>
    {{end}}
  </div>
</div>
{{if .Summary.GHSInfo.HazardStatements}}
<div class="card hazard-statements">
  <p><strong>GHS Hazard Statements - </strong>{{.Summary.TopLevelInfo.RecordTitle}}</p>
  <ul>
    {{range .Summary.GHSInfo.HazardStatements}}<li>{{.}}</li>{{end}}
  </ul>
</div>
{{end}}
{{if .Summary.FirstAidMeasures}}
<div class="card first-aid">
  <p><strong>First Aid Measures - </strong>{{.Summary.TopLevelInfo.RecordTitle}}</p>
  <ul>
    {{range .Summary.FirstAidMeasures}}<li><strong>{{.Type}}:</strong> {{.Instruction}}</li>{{end}}
  </ul>
</div>
{{end}}
{{end}}
</body>
</html>
`))

type fieldRow struct {
	Key     string
	Label   string
	Value   string
	Editing bool
}

type viewData struct {
	State
	PageTitle string
	Tone      string
	FieldRows []fieldRow
}

// RenderView produces the label page HTML for a session state.
func RenderView(st State) ([]byte, error) {
	data := viewData{
		State:     st,
		PageTitle: "PubChem to GHS Label Generator",
		FieldRows: make([]fieldRow, 0, len(FieldKeys)),
	}
	if st.Summary != nil {
		data.Tone = BadgeTone(st.Summary.GHSInfo.SignalWord)
	}
	for _, key := range FieldKeys {
		data.FieldRows = append(data.FieldRows, fieldRow{
			Key:     string(key),
			Label:   titleCase(string(key)),
			Value:   st.Fields.Get(key),
			Editing: st.Editing[key],
		})
	}

	var buf bytes.Buffer
	if err := viewTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
