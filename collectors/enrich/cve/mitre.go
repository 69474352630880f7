package cve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/xerrors"

	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
)

const mitreURL = "https://cveawg.mitre.org/api/cve"

type MitreCVE struct {
	Containers *Containers `json:"containers"`
}

type Containers struct {
	Cna *Cna `json:"cna"`
}

type Cna struct {
	Affected     []MitreAffected `json:"affected"`
	Descriptions []Descriptions  `json:"descriptions"`
	Metrics      []Metric        `json:"metrics"`
	ProblemTypes []ProblemType   `json:"problemTypes"`
}

type MitreAffected struct {
	Vendor   string         `json:"vendor"`
	Product  string         `json:"product"`
	Versions []MitreVersion `json:"versions"`
}

type MitreVersion struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Descriptions struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

type Metric struct {
	CvssV3_1 *Cvss `json:"cvssV3_1"`
	CvssV3_0 *Cvss `json:"cvssV3_0"`
}

type Cvss struct {
	BaseScore    *float64 `json:"baseScore"`
	VectorString string   `json:"vectorString"`
}

type ProblemType struct {
	Descriptions []struct {
		CweID       *string `json:"cweId"`
		Description *string `json:"description"`
	} `json:"descriptions"`
}

// MitreClient queries the MITRE CVE record API.
type MitreClient struct {
	fetcher utils.Fetcher
	baseURL string
}

func NewMitreClient(f utils.Fetcher, baseURL string) MitreClient {
	if baseURL == "" {
		baseURL = mitreURL
	}
	return MitreClient{fetcher: f, baseURL: strings.TrimRight(baseURL, "/")}
}

// Get fetches and parses the record of cveID.
func (c MitreClient) Get(ctx context.Context, cveID string) (*Record, error) {
	b, err := c.fetcher.Fetch(ctx, fmt.Sprintf("%s/%s", c.baseURL, cveID))
	if err != nil {
		return nil, err
	}
	return ParseMitreCve(b)
}

// ParseMitreCve extracts a Record from a CVE JSON 5 document. A document
// without a cna container carries no usable data and is an error.
func ParseMitreCve(b []byte) (*Record, error) {
	var cve MitreCVE
	if err := json.Unmarshal(b, &cve); err != nil {
		return nil, xerrors.Errorf("failed to decode mitre record: %w", err)
	}
	if cve.Containers == nil || cve.Containers.Cna == nil {
		return nil, xerrors.New("no cna container in mitre record")
	}
	cna := cve.Containers.Cna

	score := getBaseScore(cna.Metrics)
	cweID, cweDesc := getWeakness(cna.ProblemTypes)
	return &Record{
		Description:     getDescription(cna.Descriptions),
		CvssScore:       score,
		BaseSeverity:    BucketSeverity(score),
		CweID:           cweID,
		CweDescription:  cweDesc,
		AffectedSystems: getAffected(cna.Affected),
	}, nil
}

func getDescription(descriptions []Descriptions) string {
	if len(descriptions) == 0 {
		return ""
	}
	return descriptions[0].Value
}

// getBaseScore walks the metrics in order, preferring CVSS 3.1 over 3.0 within
// an entry, and stops at the first score found.
func getBaseScore(metrics []Metric) *float64 {
	for _, metric := range metrics {
		for _, c := range []*Cvss{metric.CvssV3_1, metric.CvssV3_0} {
			if c == nil {
				continue
			}
			if c.BaseScore != nil {
				s := *c.BaseScore
				return &s
			}
			if s, ok := utils.CvssVectorToScore(c.VectorString); ok {
				return &s
			}
		}
	}
	return nil
}

func getWeakness(problemTypes []ProblemType) (*string, *string) {
	if len(problemTypes) == 0 || len(problemTypes[0].Descriptions) == 0 {
		return nil, nil
	}
	d := problemTypes[0].Descriptions[0]
	return d.CweID, d.Description
}

func getAffected(affected []MitreAffected) []AffectedSystem {
	systems := make([]AffectedSystem, 0, len(affected))
	for _, a := range affected {
		versions := make([]string, 0, len(a.Versions))
		for _, v := range a.Versions {
			if v.Status == "affected" && v.Version != "" {
				versions = append(versions, v.Version)
			}
		}
		systems = append(systems, AffectedSystem{
			Vendor:   a.Vendor,
			Product:  a.Product,
			Versions: versions,
		})
	}
	return systems
}
