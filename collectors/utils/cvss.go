package utils

import (
	"github.com/goark/go-cvss/v3/metric"
)

// CvssVectorToScore computes the base score of a CVSS v3.x vector.
func CvssVectorToScore(vector string) (float64, bool) {
	if vector == "" {
		return 0, false
	}
	bm, err := metric.NewBase().Decode(vector) //CVE-2020-1472: ZeroLogon
	if err != nil {
		return 0, false
	}
	return bm.Score(), true
}
