package compound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemlabel/backend/internal/pubchem"
	"github.com/chemlabel/backend/pkg/config"
)

const propertyJSON = `{"PropertyTable":{"Properties":[
	{"CID":702,"IUPACName":"ethanol","MolecularFormula":"C2H6O",
	 "MolecularWeight":"46.07","CanonicalSMILES":"CCO"}]}}`

const recordJSON = `{"Record":{
	"RecordType":"CID","RecordNumber":702,"RecordTitle":"Ethanol",
	"Section":[
		{"TOCHeading":"Chemical Safety","Information":[
			{"Value":{"StringWithMarkup":[{"Markup":[
				{"Type":"Icon","URL":"https://example.org/flame.svg","Extra":"Flammable"}]}]}}]},
		{"TOCHeading":"Names and Identifiers"},
		{"TOCHeading":"Safety and Hazards","Section":[
			{"TOCHeading":"Hazards Identification","Section":[
				{"TOCHeading":"GHS Classification","Information":[
					{"Name":"Signal","Value":{"StringWithMarkup":[{"String":"Warning"}]}},
					{"Name":"GHS Hazard Statements","Value":{"StringWithMarkup":[
						{"String":"Flammable liquid"},
						{"String":"Contains 10% ethanol"}]}}]}]}]}]}}`

const synonymsJSON = `{"InformationList":{"Information":[
	{"CID":702,"Synonym":["Grain alcohol","Ethanol"]}]}}`

const emptySynonymsJSON = `{"InformationList":{"Information":[{"CID":702,"Synonym":[]}]}}`

type upstream struct {
	server   *httptest.Server
	requests atomic.Int64

	failProperties bool
	synonymsBody   string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{synonymsBody: synonymsJSON}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.requests.Add(1)
		switch {
		case strings.Contains(r.URL.Path, "/property/"):
			if u.failProperties {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(propertyJSON))
		case strings.Contains(r.URL.Path, "/synonyms/"):
			w.Write([]byte(u.synonymsBody))
		case strings.Contains(r.URL.Path, "/data/compound/"):
			w.Write([]byte(recordJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) service() *Service {
	client := pubchem.NewClient(config.PubChemConfig{
		BaseURL:           u.server.URL + "/rest/pug",
		ViewBaseURL:       u.server.URL + "/rest/pug_view",
		TimeoutSec:        5,
		RequestsPerSecond: 1000,
		Burst:             1000,
	})
	return NewService(client)
}

func TestLookupMissingCID(t *testing.T) {
	u := newUpstream(t)

	_, err := u.service().Lookup(context.Background(), "")

	assert.ErrorIs(t, err, ErrMissingCID)
	assert.Zero(t, u.requests.Load(), "empty CID must not reach the upstream")
}

func TestLookupUpstreamFailure(t *testing.T) {
	u := newUpstream(t)
	u.failProperties = true

	summary, err := u.service().Lookup(context.Background(), "702")

	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, summary, "a failed lookup returns no partial summary")
}

func TestLookupSummary(t *testing.T) {
	u := newUpstream(t)

	summary, err := u.service().Lookup(context.Background(), "702")
	require.NoError(t, err)

	assert.Equal(t, 702, summary.CID)
	assert.Equal(t, "Grain alcohol", summary.CommonName)
	assert.Equal(t, "Ethanol", summary.TopLevelInfo.RecordTitle)
	assert.Equal(t, "Warning", summary.GHSInfo.SignalWord)
	assert.Equal(t, []string{"Contains 10% ethanol"}, summary.GHSInfo.HazardStatements)
	require.Len(t, summary.HazardInformation, 1)
	assert.Equal(t, "Flammable", summary.HazardInformation[0].Description)
}

func TestLookupIdempotent(t *testing.T) {
	u := newUpstream(t)
	svc := u.service()

	first, err := svc.Lookup(context.Background(), "702")
	require.NoError(t, err)
	second, err := svc.Lookup(context.Background(), "702")
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestCommonNameFallback(t *testing.T) {
	u := newUpstream(t)
	u.synonymsBody = emptySynonymsJSON

	summary, err := u.service().Lookup(context.Background(), "702")
	require.NoError(t, err)

	assert.Equal(t, "ethanol", summary.CommonName, "empty synonym list falls back to the IUPAC name")
}
