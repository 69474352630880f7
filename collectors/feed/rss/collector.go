package rss

import (
	"bytes"
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

const (
	advisoryFeedURL = "https://www.cert.ssi.gouv.fr/avis/feed"
	alertFeedURL    = "https://www.cert.ssi.gouv.fr/alerte/feed"
)

// BulletinType is the CERT-FR category label of a feed.
type BulletinType string

const (
	TypeAdvisory BulletinType = "avis"
	TypeAlert    BulletinType = "alerte"
)

func (t BulletinType) MarshalCSV() (string, error) {
	return string(t), nil
}

// Source is one feed to collect, labelled with its category.
type Source struct {
	Type BulletinType
	URL  string
}

// Entry is a normalized feed item.
type Entry struct {
	Type        BulletinType `json:"type" csv:"type"`
	Title       string       `json:"title" csv:"title"`
	Description string       `json:"description" csv:"description"`
	Published   string       `json:"published" csv:"published"`
	Link        string       `json:"link" csv:"link"`
}

// DefaultSources returns the CERT-FR advisory and alert feeds.
func DefaultSources() []Source {
	return []Source{
		{Type: TypeAdvisory, URL: advisoryFeedURL},
		{Type: TypeAlert, URL: alertFeedURL},
	}
}

// Collect fetches and parses every source in order. A source that cannot be
// fetched or parsed is logged and skipped.
func Collect(ctx context.Context, f utils.Fetcher, sources []Source, logger *log.Logger) []Entry {
	entries := make([]Entry, 0)
	for _, src := range sources {
		logger.Info("Parsing feed", log.String("type", string(src.Type)), log.URL(src.URL))
		data, err := f.Fetch(ctx, src.URL)
		if err != nil {
			logger.Error("Unable to fetch feed", log.URL(src.URL), log.Err(err))
			continue
		}
		parsed, err := Parse(src.Type, data)
		if err != nil {
			logger.Warn("Feed parsing problem", log.URL(src.URL), log.Err(err))
			continue
		}
		entries = append(entries, parsed...)
	}
	return entries
}

// Parse turns an RSS or Atom document into entries in document order.
func Parse(typ BulletinType, data []byte) ([]Entry, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, xerrors.Errorf("failed to parse feed: %w", err)
	}
	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		description := item.Description
		if description == "" {
			description = item.Content
		}
		entries = append(entries, Entry{
			Type:        typ,
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(description),
			Published:   strings.TrimSpace(item.Published),
			Link:        strings.TrimSpace(item.Link),
		})
	}
	return entries, nil
}
