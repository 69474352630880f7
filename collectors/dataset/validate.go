package dataset

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ValidateRows reports rows missing one of the identifying columns.
func ValidateRows(rows []Row) error {
	var result error
	for i, row := range rows {
		if len(row.Reference) == 0 {
			result = multierror.Append(result, fmt.Errorf("id_ansi is missing on row #%d (%s)", i, row.CveID))
		}
		if len(row.CveID) == 0 {
			result = multierror.Append(result, fmt.Errorf("cve_id is missing on row #%d (%s)", i, row.Reference))
		}
		if len(row.Link) == 0 {
			result = multierror.Append(result, fmt.Errorf("lien_bulletin is missing on row #%d (%s)", i, row.CveID))
		}
	}
	return result
}
