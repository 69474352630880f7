package certfr

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/xerrors"
)

var cvePattern = regexp.MustCompile(`CVE-\d{4}-\d{4,7}`)

// ExtractCVEs returns the union of the CVE ids listed in the "cves" field and
// every CVE id found in the raw document text, deduplicated and sorted.
// A "cves" field of unexpected shape is ignored; the text scan still applies.
//
// Ordering is plain string order, so CVE-2025-10000 sorts before CVE-2025-9999.
func ExtractCVEs(raw []byte) ([]string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, xerrors.Errorf("failed to decode bulletin: %w", err)
	}
	ids := make([]string, 0)
	ids = append(ids, listedCVEs(doc["cves"])...)
	for _, m := range cvePattern.FindAll(raw, -1) {
		ids = append(ids, string(m))
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func listedCVEs(field json.RawMessage) []string {
	if len(field) == 0 {
		return nil
	}
	var listed []map[string]interface{}
	if err := json.Unmarshal(field, &listed); err != nil {
		return nil
	}
	var ids []string
	for _, c := range listed {
		if name, ok := c["name"].(string); ok && name != "" {
			ids = append(ids, name)
		}
	}
	return ids
}

// Reference derives the bulletin id (e.g. CERTFR-2025-ALE-008) from its link.
func Reference(link string) string {
	p := link
	if u, err := url.Parse(link); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	return p[strings.LastIndex(p, "/")+1:]
}

// JSONURL returns the JSON export url of a bulletin page.
func JSONURL(link string) string {
	return strings.TrimRight(link, "/") + "/json/"
}
