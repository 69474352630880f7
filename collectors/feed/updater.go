package feed

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/certfr-db-collector/collectors"
	"github.com/aquasecurity/certfr-db-collector/collectors/feed/rss"
	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

// Updater collects CERT-FR feed entries
type Updater struct {
	*options
}

// NewUpdater return new updater instance
func NewUpdater(opts ...Option) Updater {
	o := &options{
		dataDir: collectors.MainFolder,
		sources: rss.DefaultSources(),
		fetcher: utils.NewHTTPFetcher(utils.DefaultTimeout),
		logger:  log.WithPrefix(collectors.StageFeed),
	}
	for _, opt := range opts {
		opt(o)
	}
	return Updater{
		options: o,
	}
}

type options struct {
	dataDir string
	sources []rss.Source
	fetcher utils.Fetcher
	logger  *log.Logger
}

type Option func(*options)

func WithDataDir(dir string) Option {
	return func(o *options) { o.dataDir = dir }
}

func WithSources(sources []rss.Source) Option {
	return func(o *options) { o.sources = sources }
}

func WithFetcher(f utils.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Update fetches every feed and writes the normalized entries as JSON and CSV.
// It fails when no feed yields any entry.
func (u Updater) Update(ctx context.Context) error {
	entries := rss.Collect(ctx, u.fetcher, u.sources, u.logger)
	if len(entries) == 0 {
		return fmt.Errorf("no feed entry found, check the feed urls")
	}

	jsonPath := filepath.Join(u.dataDir, collectors.RSSEntriesJSON)
	if err := utils.WriteJSON(jsonPath, entries); err != nil {
		return err
	}
	log.OKTo(u.logger, "JSON written", log.FilePath(jsonPath), log.Int("entries", len(entries)))

	b, err := gocsv.MarshalBytes(entries)
	if err != nil {
		return xerrors.Errorf("failed to encode csv: %w", err)
	}
	csvPath := filepath.Join(u.dataDir, collectors.RSSEntriesCSV)
	if err = utils.WriteFile(csvPath, b); err != nil {
		return err
	}
	log.OKTo(u.logger, "CSV written", log.FilePath(csvPath))

	return nil
}
