package label

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemlabel/backend/internal/compound"
	"github.com/chemlabel/backend/internal/pubchem"
	"github.com/chemlabel/backend/pkg/config"
)

func testService(t *testing.T, fail bool) *compound.Service {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		switch {
		case strings.Contains(r.URL.Path, "/property/"):
			w.Write([]byte(`{"PropertyTable":{"Properties":[
				{"CID":702,"IUPACName":"ethanol","MolecularFormula":"C2H6O",
				 "MolecularWeight":"46.07","CanonicalSMILES":"CCO"}]}}`))
		case strings.Contains(r.URL.Path, "/synonyms/"):
			w.Write([]byte(`{"InformationList":{"Information":[{"CID":702,"Synonym":["Ethanol"]}]}}`))
		default:
			w.Write([]byte(`{"Record":{"RecordType":"CID","RecordNumber":702,"RecordTitle":"Ethanol"}}`))
		}
	}))
	t.Cleanup(ts.Close)

	client := pubchem.NewClient(config.PubChemConfig{
		BaseURL:           ts.URL + "/rest/pug",
		ViewBaseURL:       ts.URL + "/rest/pug_view",
		TimeoutSec:        5,
		RequestsPerSecond: 1000,
		Burst:             1000,
	})
	return compound.NewService(client)
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour, 0)
	defer store.Stop()

	session := store.Create()
	require.NotEmpty(t, session.ID)

	found, ok := store.Get(session.ID)
	require.True(t, ok)
	assert.Same(t, session, found)

	_, ok = store.Get("no-such-session")
	assert.False(t, ok)
}

func TestStoreSweepsIdleSessions(t *testing.T) {
	store := NewStore(-time.Second, 5*time.Millisecond)
	defer store.Stop()

	session := store.Create()

	assert.Eventually(t, func() bool {
		_, ok := store.Get(session.ID)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitEmptyCIDIsNoOp(t *testing.T) {
	store := NewStore(time.Hour, 0)
	defer store.Stop()
	session := store.Create()

	st := session.Submit(context.Background(), nil, "")

	assert.Empty(t, st.CID)
	assert.Nil(t, st.Summary)
	assert.False(t, st.Loading)
}

func TestSubmitLookup(t *testing.T) {
	store := NewStore(time.Hour, 0)
	defer store.Stop()
	session := store.Create()

	st := session.Submit(context.Background(), testService(t, false), "702")

	require.NotNil(t, st.Summary)
	assert.Equal(t, "702", st.CID)
	assert.Equal(t, "Ethanol", st.Summary.TopLevelInfo.RecordTitle)
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
}

func TestSubmitFailureKeepsPreviousSummary(t *testing.T) {
	store := NewStore(time.Hour, 0)
	defer store.Stop()
	session := store.Create()

	first := session.Submit(context.Background(), testService(t, false), "702")
	require.NotNil(t, first.Summary)

	second := session.Submit(context.Background(), testService(t, true), "703")

	assert.Same(t, first.Summary, second.Summary)
	assert.Equal(t, ErrLookupFailed, second.Error)
}

func TestSessionFieldEdits(t *testing.T) {
	store := NewStore(time.Hour, 0)
	defer store.Stop()
	session := store.Create()

	st := session.ToggleEdit(FieldSize)
	assert.True(t, st.Editing[FieldSize])

	st = session.SetField(FieldSize, "500 mL")
	assert.Equal(t, "500 mL", st.Fields.Size)

	st = session.ToggleEdit(FieldSize)
	assert.False(t, st.Editing[FieldSize])
	assert.Equal(t, "500 mL", session.Snapshot().Fields.Size)
}
