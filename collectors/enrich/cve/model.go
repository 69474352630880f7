package cve

import (
	"github.com/aquasecurity/certfr-db-collector/collectors/feed/rss"
)

// AffectedSystem lists the affected versions of one vendor product.
type AffectedSystem struct {
	Vendor   string   `json:"vendor"`
	Product  string   `json:"product"`
	Versions []string `json:"versions"`
}

// Enriched is one (bulletin, CVE) pair with its vulnerability metadata.
// Nil pointers and SeverityUnknown mean the source had no value.
type Enriched struct {
	Reference string           `json:"reference"`
	Type      rss.BulletinType `json:"type"`
	Title     string           `json:"title"`
	Published string           `json:"published"`
	Link      string           `json:"link"`
	JSONURL   string           `json:"json_url"`

	CveID           string           `json:"cve_id"`
	Description     string           `json:"description"`
	CvssScore       *float64         `json:"cvss_score"`
	BaseSeverity    Severity         `json:"base_severity"`
	CweID           *string          `json:"cwe_id"`
	CweDescription  *string          `json:"cwe_description"`
	EpssScore       *float64         `json:"epss_score"`
	AffectedSystems []AffectedSystem `json:"affected_systems"`
}

// Record is what the MITRE CVE record API yields for one CVE.
type Record struct {
	Description     string
	CvssScore       *float64
	BaseSeverity    Severity
	CweID           *string
	CweDescription  *string
	AffectedSystems []AffectedSystem
}
