package cve

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/certfr-db-collector/collectors/bulletin/certfr"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

// Enricher merges MITRE and EPSS data into one record per (bulletin, CVE).
type Enricher struct {
	Mitre  MitreClient
	EPSS   EPSSClient
	Logger *log.Logger
}

// Enrich walks the bulletins and their CVEs in order. A CVE without a usable
// MITRE record is skipped and its error collected in the returned
// multierror; the records built so far are always returned. A missing EPSS
// score only leaves EpssScore nil.
func (e Enricher) Enrich(ctx context.Context, bulletins []certfr.Bulletin) ([]Enriched, error) {
	var result error
	enriched := make([]Enriched, 0)
	for _, b := range bulletins {
		for _, cveID := range b.CVEs {
			e.Logger.Info("Enriching CVE", log.String("cve", cveID), log.String("reference", b.Reference))

			rec, err := e.Mitre.Get(ctx, cveID)
			if err != nil {
				e.Logger.Warn("No MITRE data", log.String("cve", cveID), log.Err(err))
				result = multierror.Append(result, xerrors.Errorf("%s (%s): %w", cveID, b.Reference, err))
				continue
			}

			epss, err := e.EPSS.Score(ctx, cveID)
			if err != nil {
				e.Logger.Error("No EPSS score", log.String("cve", cveID), log.Err(err))
			}

			enriched = append(enriched, Enriched{
				Reference:       b.Reference,
				Type:            b.Type,
				Title:           b.Title,
				Published:       b.Published,
				Link:            b.Link,
				JSONURL:         b.JSONURL,
				CveID:           cveID,
				Description:     rec.Description,
				CvssScore:       rec.CvssScore,
				BaseSeverity:    rec.BaseSeverity,
				CweID:           rec.CweID,
				CweDescription:  rec.CweDescription,
				EpssScore:       epss,
				AffectedSystems: rec.AffectedSystems,
			})
		}
	}
	return enriched, result
}
