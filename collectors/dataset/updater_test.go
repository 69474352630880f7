package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/certfr-db-collector/collectors"
	"github.com/aquasecurity/certfr-db-collector/collectors/enrich/cve"
	"github.com/aquasecurity/certfr-db-collector/collectors/feed/rss"
	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

func TestUpdater_Update(t *testing.T) {
	dir := t.TempDir()
	records := []cve.Enriched{
		{
			Reference:    "CERTFR-2025-AVI-001",
			Type:         rss.TypeAdvisory,
			Title:        "Vulnérabilité dans Widget",
			Published:    "Mon, 06 Jan 2025 10:00:00 +0000",
			Link:         "https://example.org/avis/CERTFR-2025-AVI-001",
			CveID:        "CVE-2025-1234",
			Description:  "Heap overflow, remote.",
			CvssScore:    float(7.5),
			BaseSeverity: cve.SeverityHigh,
			AffectedSystems: []cve.AffectedSystem{
				{Vendor: "Acme", Product: "Widget", Versions: []string{"2.0", "1.0", "1.0"}},
			},
		},
	}
	require.NoError(t, utils.WriteJSON(filepath.Join(dir, collectors.EnrichedCveJSON), records))

	u := NewUpdater(WithDataDir(dir), WithLogger(log.New(&bytes.Buffer{})))
	require.NoError(t, u.Update(context.Background()))

	b, err := os.ReadFile(filepath.Join(dir, collectors.ConsolidatedCSV))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id_ansi,titre,type_bulletin,date_pub,cve_id,cvss_score,base_severity,cwe_id,epss_score,lien_bulletin,description,vendor,produit,versions", lines[0])
	assert.Equal(t, `CERTFR-2025-AVI-001,Vulnérabilité dans Widget,avis,"Mon, 06 Jan 2025 10:00:00 +0000",CVE-2025-1234,7.5,Élevée,Non disponible,,https://example.org/avis/CERTFR-2025-AVI-001,"Heap overflow, remote.",Acme,Widget,1.0; 2.0`, lines[1])

	var rows []map[string]interface{}
	require.NoError(t, utils.ReadJSON(filepath.Join(dir, collectors.ConsolidatedJSON), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 7.5, rows[0]["cvss_score"])
	assert.Nil(t, rows[0]["epss_score"])
	assert.Equal(t, "Élevée", rows[0]["base_severity"])
}
