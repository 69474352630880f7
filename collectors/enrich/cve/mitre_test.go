package cve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFetcher map[string]string

func (m mapFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := m[url]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	return []byte(body), nil
}

func str(s string) *string {
	return &s
}

const fullRecord = `{
  "cveMetadata": {"cveId": "CVE-2025-1234"},
  "containers": {
    "cna": {
      "descriptions": [
        {"lang": "en", "value": "Heap overflow in libfoo."},
        {"lang": "fr", "value": "Débordement de tas."}
      ],
      "metrics": [
        {"format": "CVSS", "other": {"type": "ssvc"}},
        {"cvssV3_0": {"baseScore": 5.3}, "cvssV3_1": {"baseScore": 7.5, "vectorString": "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:N/A:N"}},
        {"cvssV3_1": {"baseScore": 9.8}}
      ],
      "problemTypes": [
        {"descriptions": [{"cweId": "CWE-122", "description": "CWE-122 Heap-based Buffer Overflow", "type": "CWE"}]},
        {"descriptions": [{"cweId": "CWE-787"}]}
      ],
      "affected": [
        {"vendor": "Foo", "product": "libfoo", "versions": [
          {"version": "1.0", "status": "affected"},
          {"version": "1.1", "status": "unaffected"},
          {"version": "", "status": "affected"},
          {"version": "2.0", "status": "affected", "lessThan": "2.4"}
        ]},
        {"product": "foo-cli", "versions": []}
      ]
    }
  }
}`

func TestParseMitreCve(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    *Record
		wantErr bool
	}{
		{
			name: "full record",
			doc:  fullRecord,
			want: &Record{
				Description:    "Heap overflow in libfoo.",
				CvssScore:      score(7.5),
				BaseSeverity:   SeverityHigh,
				CweID:          str("CWE-122"),
				CweDescription: str("CWE-122 Heap-based Buffer Overflow"),
				AffectedSystems: []AffectedSystem{
					{Vendor: "Foo", Product: "libfoo", Versions: []string{"1.0", "2.0"}},
					{Vendor: "", Product: "foo-cli", Versions: []string{}},
				},
			},
		},
		{
			name: "falls back to cvss 3.0",
			doc:  `{"containers":{"cna":{"metrics":[{"cvssV3_0":{"baseScore":3.0}}]}}}`,
			want: &Record{CvssScore: score(3.0), BaseSeverity: SeverityLow, AffectedSystems: []AffectedSystem{}},
		},
		{
			name: "3.1 block without score falls back to 3.0",
			doc:  `{"containers":{"cna":{"metrics":[{"cvssV3_1":{},"cvssV3_0":{"baseScore":6.1}}]}}}`,
			want: &Record{CvssScore: score(6.1), BaseSeverity: SeverityHigh, AffectedSystems: []AffectedSystem{}},
		},
		{
			name: "score computed from vector",
			doc:  `{"containers":{"cna":{"metrics":[{"cvssV3_1":{"vectorString":"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H"}}]}}}`,
			want: &Record{CvssScore: score(10.0), BaseSeverity: SeverityCritical, AffectedSystems: []AffectedSystem{}},
		},
		{
			name: "no metrics no weakness",
			doc:  `{"containers":{"cna":{"descriptions":[],"problemTypes":[{"descriptions":[]}]}}}`,
			want: &Record{AffectedSystems: []AffectedSystem{}},
		},
		{
			name: "weakness without cwe id",
			doc:  `{"containers":{"cna":{"problemTypes":[{"descriptions":[{"description":"Improper input validation","type":"text"}]}]}}}`,
			want: &Record{CweDescription: str("Improper input validation"), AffectedSystems: []AffectedSystem{}},
		},
		{
			name:    "rejected record without containers",
			doc:     `{"cveMetadata":{"state":"REJECTED"}}`,
			wantErr: true,
		},
		{
			name:    "containers without cna",
			doc:     `{"containers":{"adp":[]}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			doc:     `CVE not found`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMitreCve([]byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMitreClient_Get(t *testing.T) {
	c := NewMitreClient(mapFetcher{"https://cve.test/api/cve/CVE-2025-1234": fullRecord}, "https://cve.test/api/cve/")

	rec, err := c.Get(context.Background(), "CVE-2025-1234")
	require.NoError(t, err)
	assert.Equal(t, score(7.5), rec.CvssScore)

	_, err = c.Get(context.Background(), "CVE-2025-0000")
	assert.Error(t, err)
}
