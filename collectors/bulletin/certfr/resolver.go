package certfr

import (
	"bytes"
	"context"
	"strings"

	"golang.org/x/xerrors"

	"github.com/aquasecurity/certfr-db-collector/collectors/feed/rss"
	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

// Bulletin is a feed entry resolved against its JSON export.
type Bulletin struct {
	Reference string           `json:"reference"`
	Type      rss.BulletinType `json:"type"`
	Title     string           `json:"title"`
	Published string           `json:"published"`
	Link      string           `json:"link"`
	JSONURL   string           `json:"json_url"`
	CVEs      []string         `json:"cves"`
}

// Resolve fetches the JSON export of every entry and extracts its CVE ids.
// Entries whose export cannot be fetched or decoded are skipped. Bulletins
// without any CVE are kept.
func Resolve(ctx context.Context, f utils.Fetcher, entries []rss.Entry, logger *log.Logger) []Bulletin {
	bulletins := make([]Bulletin, 0, len(entries))
	for _, e := range entries {
		b, err := resolve(ctx, f, e, logger)
		if err != nil {
			logger.Error("Unable to resolve bulletin", log.URL(e.Link), log.Err(err))
			continue
		}
		bulletins = append(bulletins, b)
	}
	return bulletins
}

func resolve(ctx context.Context, f utils.Fetcher, e rss.Entry, logger *log.Logger) (Bulletin, error) {
	link := strings.TrimRight(e.Link, "/")
	jsonURL := JSONURL(link)
	logger.Info("Processing bulletin", log.String("type", string(e.Type)), log.URL(jsonURL))

	raw, err := f.Fetch(ctx, jsonURL)
	if err != nil {
		return Bulletin{}, err
	}
	if isEmptyDocument(raw) {
		return Bulletin{}, xerrors.Errorf("empty document at %s", jsonURL)
	}
	cves, err := ExtractCVEs(raw)
	if err != nil {
		return Bulletin{}, err
	}
	return Bulletin{
		Reference: Reference(link),
		Type:      e.Type,
		Title:     e.Title,
		Published: e.Published,
		Link:      link,
		JSONURL:   jsonURL,
		CVEs:      cves,
	}, nil
}

func isEmptyDocument(raw []byte) bool {
	switch string(bytes.Join(bytes.Fields(raw), nil)) {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}
