package cve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
)

const epssURL = "https://api.first.org/data/v1/epss"

type epssResponse struct {
	Data []struct {
		Cve  string     `json:"cve"`
		Epss *epssValue `json:"epss"`
	} `json:"data"`
}

// epssValue accepts both the quoted decimals FIRST serves and plain numbers.
type epssValue float64

func (v *epssValue) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return xerrors.Errorf("invalid epss value %s: %w", string(b), err)
	}
	*v = epssValue(f)
	return nil
}

// EPSSClient queries the FIRST EPSS API.
type EPSSClient struct {
	fetcher utils.Fetcher
	baseURL string
}

func NewEPSSClient(f utils.Fetcher, baseURL string) EPSSClient {
	if baseURL == "" {
		baseURL = epssURL
	}
	return EPSSClient{fetcher: f, baseURL: baseURL}
}

// Score returns the EPSS probability of cveID, or nil when FIRST has none.
func (c EPSSClient) Score(ctx context.Context, cveID string) (*float64, error) {
	b, err := c.fetcher.Fetch(ctx, fmt.Sprintf("%s?cve=%s", c.baseURL, url.QueryEscape(cveID)))
	if err != nil {
		return nil, err
	}
	return ParseEPSS(b)
}

// ParseEPSS returns the score of the first data entry.
func ParseEPSS(b []byte) (*float64, error) {
	var resp epssResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, xerrors.Errorf("failed to decode epss response: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].Epss == nil {
		return nil, nil
	}
	s := float64(*resp.Data[0].Epss)
	return &s, nil
}
