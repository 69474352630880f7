package dataset

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/aquasecurity/certfr-db-collector/collectors/enrich/cve"
	"github.com/aquasecurity/certfr-db-collector/collectors/feed/rss"
)

const (
	separator   = "; "
	unavailable = "Non disponible"
)

// Score is an optional float rendered as an empty cell when absent.
type Score struct {
	Value *float64
}

func (s Score) MarshalCSV() (string, error) {
	if s.Value == nil {
		return "", nil
	}
	return strconv.FormatFloat(*s.Value, 'f', -1, 64), nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	if s.Value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(*s.Value, 'f', -1, 64)), nil
}

// Row is the tabular projection of an enriched record. Field order is the
// column order of the CSV export.
type Row struct {
	Reference    string           `json:"id_ansi" csv:"id_ansi"`
	Title        string           `json:"titre" csv:"titre"`
	Type         rss.BulletinType `json:"type_bulletin" csv:"type_bulletin"`
	Published    string           `json:"date_pub" csv:"date_pub"`
	CveID        string           `json:"cve_id" csv:"cve_id"`
	CvssScore    Score            `json:"cvss_score" csv:"cvss_score"`
	BaseSeverity cve.Severity     `json:"base_severity" csv:"base_severity"`
	CweID        string           `json:"cwe_id" csv:"cwe_id"`
	EpssScore    Score            `json:"epss_score" csv:"epss_score"`
	Link         string           `json:"lien_bulletin" csv:"lien_bulletin"`
	Description  string           `json:"description" csv:"description"`
	Vendor       string           `json:"vendor" csv:"vendor"`
	Product      string           `json:"produit" csv:"produit"`
	Versions     string           `json:"versions" csv:"versions"`
}

// Flatten projects every record to one row, preserving order.
func Flatten(records []cve.Enriched) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		vendors, products, versions := FlattenAffected(r.AffectedSystems)
		rows = append(rows, Row{
			Reference:    r.Reference,
			Title:        r.Title,
			Type:         r.Type,
			Published:    r.Published,
			CveID:        r.CveID,
			CvssScore:    Score{Value: r.CvssScore},
			BaseSeverity: r.BaseSeverity,
			CweID:        orUnavailable(r.CweID),
			EpssScore:    Score{Value: r.EpssScore},
			Link:         r.Link,
			Description:  r.Description,
			Vendor:       vendors,
			Product:      products,
			Versions:     versions,
		})
	}
	return rows
}

// FlattenAffected joins vendors and products in first-seen order without
// duplicates, and all versions sorted and deduplicated.
func FlattenAffected(systems []cve.AffectedSystem) (string, string, string) {
	var vendors, products, versions []string
	for _, s := range systems {
		vendors = append(vendors, s.Vendor)
		products = append(products, s.Product)
		versions = append(versions, s.Versions...)
	}
	slices.Sort(versions)
	return strings.Join(uniqueInOrder(vendors), separator),
		strings.Join(uniqueInOrder(products), separator),
		strings.Join(slices.Compact(versions), separator)
}

func uniqueInOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

func orUnavailable(s *string) string {
	if s == nil {
		return unavailable
	}
	return *s
}
