package cve

import (
	"encoding/json"
	"fmt"
)

type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// SeverityNames are the labels written to the dataset. Unknown has no label.
var SeverityNames = []string{
	"",
	"Faible",
	"Moyenne",
	"Élevée",
	"Critique",
}

// BucketSeverity maps a CVSS base score to a severity. Upper bounds are
// inclusive: 3 is Low, 6 is Medium, 8 is High. A nil score is Unknown.
func BucketSeverity(score *float64) Severity {
	switch {
	case score == nil:
		return SeverityUnknown
	case *score <= 3:
		return SeverityLow
	case *score <= 6:
		return SeverityMedium
	case *score <= 8:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

func NewSeverity(severity string) (Severity, error) {
	for i, name := range SeverityNames {
		if severity == name {
			return Severity(i), nil
		}
	}
	return SeverityUnknown, fmt.Errorf("unknown severity: %s", severity)
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(SeverityNames) {
		return ""
	}
	return SeverityNames[s]
}

func (s Severity) MarshalJSON() ([]byte, error) {
	if s == SeverityUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var name *string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	if name == nil {
		*s = SeverityUnknown
		return nil
	}
	sev, err := NewSeverity(*name)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// MarshalCSV renders Unknown as an empty cell.
func (s Severity) MarshalCSV() (string, error) {
	return s.String(), nil
}
