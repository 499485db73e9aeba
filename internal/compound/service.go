// Package compound builds the flat label summary for a compound out
// of the three PubChem responses.
package compound

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chemlabel/backend/internal/metrics"
	"github.com/chemlabel/backend/internal/pubchem"
	"github.com/chemlabel/backend/pkg/logger"
)

var (
	// ErrMissingCID is returned for an empty CID; no upstream call is made.
	ErrMissingCID = errors.New("cid is required")
	// ErrUpstream is the single generic failure signal for any failed or
	// malformed upstream response. No partial summary accompanies it.
	ErrUpstream = errors.New("error fetching data from pubchem")
)

// Summary is the flat record the label presenter renders. Every field
// other than the CID is optional; absence degrades to "not shown".
// JSON keys match the payload of the label generator this service
// replaces, so existing clients keep working.
type Summary struct {
	CID               int                        `json:"CID"`
	IUPACName         string                     `json:"IUPACName"`
	MolecularFormula  string                     `json:"MolecularFormula"`
	MolecularWeight   pubchem.Weight             `json:"MolecularWeight"`
	CanonicalSMILES   string                     `json:"CanonicalSMILES"`
	CommonName        string                     `json:"commonName"`
	CASNumber         string                     `json:"casNumber,omitempty"`
	HazardInformation []pubchem.Icon             `json:"hazardInformation"`
	HazardsSummary    string                     `json:"hazardsSummary,omitempty"`
	FirstAidMeasures  []pubchem.FirstAidMeasure  `json:"firstAidMeasures"`
	GHSInfo           pubchem.GHSInfo            `json:"ghsInfo"`
	TopLevelInfo      pubchem.RecordInfo         `json:"topLevelInfo"`
	PhysicalDangers   []string                   `json:"physicalDangers,omitempty"`
	NFPADiamonds      []pubchem.Icon             `json:"nfpaDiamonds"`
}

// Service performs lookups. It is stateless; concurrent requests from
// different sessions share nothing but the rate-limited client.
type Service struct {
	client *pubchem.Client
}

func NewService(client *pubchem.Client) *Service {
	return &Service{client: client}
}

// Lookup fetches the three PubChem documents for cid and derives the
// summary. All three fetches must succeed; any failure aborts the
// whole lookup with ErrUpstream.
func (s *Service) Lookup(ctx context.Context, cid string) (*Summary, error) {
	if cid == "" {
		return nil, ErrMissingCID
	}

	start := time.Now()

	props, err := s.client.Properties(ctx, cid)
	if err != nil {
		return nil, s.upstreamFailure(cid, err)
	}

	doc, err := s.client.RecordView(ctx, cid)
	if err != nil {
		return nil, s.upstreamFailure(cid, err)
	}

	synonyms, err := s.client.Synonyms(ctx, cid)
	if err != nil {
		return nil, s.upstreamFailure(cid, err)
	}

	commonName := props.IUPACName
	if len(synonyms) > 0 {
		commonName = synonyms[0]
	}

	summary := &Summary{
		CID:               props.CID,
		IUPACName:         props.IUPACName,
		MolecularFormula:  props.MolecularFormula,
		MolecularWeight:   props.MolecularWeight,
		CanonicalSMILES:   props.CanonicalSMILES,
		CommonName:        commonName,
		CASNumber:         pubchem.ExtractCASNumber(doc),
		HazardInformation: pubchem.ExtractPictograms(doc),
		HazardsSummary:    pubchem.ExtractHazardsSummary(doc),
		FirstAidMeasures:  pubchem.ExtractFirstAidMeasures(doc),
		GHSInfo:           pubchem.ExtractGHSInfo(doc),
		TopLevelInfo:      pubchem.ExtractRecordInfo(doc),
		PhysicalDangers:   pubchem.ExtractPhysicalDangers(doc),
		NFPADiamonds:      pubchem.ExtractNFPADiamonds(doc),
	}

	metrics.LookupDuration.Observe(time.Since(start).Seconds())
	logger.Info("Compound lookup completed",
		zap.String("cid", cid),
		zap.String("title", summary.TopLevelInfo.RecordTitle),
		zap.Duration("elapsed", time.Since(start)),
	)

	return summary, nil
}

func (s *Service) upstreamFailure(cid string, err error) error {
	logger.Error("Error fetching data from PubChem",
		zap.String("cid", cid),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %s", ErrUpstream, err)
}
