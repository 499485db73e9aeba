package pubchem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chemlabel/backend/internal/metrics"
	"github.com/chemlabel/backend/pkg/config"
	"github.com/chemlabel/backend/pkg/logger"
)

// Client issues the three read requests a lookup needs: the property
// table, the PUG View record document, and the synonym list. Outbound
// traffic is throttled to PubChem's requested rate. No retries and no
// response caching.
type Client struct {
	baseURL     string
	viewBaseURL string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

func NewClient(cfg config.PubChemConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		viewBaseURL: cfg.ViewBaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// CompoundProperties is one row of the PUG REST property table.
type CompoundProperties struct {
	CID              int    `json:"CID"`
	IUPACName        string `json:"IUPACName"`
	MolecularFormula string `json:"MolecularFormula"`
	MolecularWeight  Weight `json:"MolecularWeight"`
	CanonicalSMILES  string `json:"CanonicalSMILES"`
}

type propertyResponse struct {
	PropertyTable struct {
		Properties []CompoundProperties `json:"Properties"`
	} `json:"PropertyTable"`
}

type synonymResponse struct {
	InformationList struct {
		Information []struct {
			CID     int      `json:"CID"`
			Synonym []string `json:"Synonym"`
		} `json:"Information"`
	} `json:"InformationList"`
}

// Properties fetches IUPAC name, molecular formula, molecular weight
// and canonical SMILES for the compound.
func (c *Client) Properties(ctx context.Context, cid string) (*CompoundProperties, error) {
	url := fmt.Sprintf(
		"%s/compound/cid/%s/property/IUPACName,MolecularFormula,MolecularWeight,CanonicalSMILES/JSON",
		c.baseURL, cid,
	)

	var resp propertyResponse
	if err := c.getJSON(ctx, "properties", url, &resp); err != nil {
		return nil, err
	}
	if len(resp.PropertyTable.Properties) == 0 {
		return nil, fmt.Errorf("property table for cid %s is empty", cid)
	}
	return &resp.PropertyTable.Properties[0], nil
}

// RecordView fetches the nested PUG View record document.
func (c *Client) RecordView(ctx context.Context, cid string) (*Document, error) {
	url := fmt.Sprintf("%s/data/compound/%s/JSON", c.viewBaseURL, cid)

	var doc Document
	if err := c.getJSON(ctx, "record_view", url, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Synonyms fetches the compound's synonym list. The list may be empty;
// a response without an information entry is a shape error.
func (c *Client) Synonyms(ctx context.Context, cid string) ([]string, error) {
	url := fmt.Sprintf("%s/compound/cid/%s/synonyms/JSON", c.baseURL, cid)

	var resp synonymResponse
	if err := c.getJSON(ctx, "synonyms", url, &resp); err != nil {
		return nil, err
	}
	if len(resp.InformationList.Information) == 0 {
		return nil, fmt.Errorf("synonym list for cid %s has no information entry", cid)
	}
	return resp.InformationList.Information[0].Synonym, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, url string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("pubchem %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("PubChem returned non-success status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("pubchem %s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}
	return nil
}
