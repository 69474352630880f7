package bulletin

import (
	"context"
	"path/filepath"

	"github.com/aquasecurity/certfr-db-collector/collectors"
	"github.com/aquasecurity/certfr-db-collector/collectors/bulletin/certfr"
	"github.com/aquasecurity/certfr-db-collector/collectors/feed/rss"
	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

// Updater resolves feed entries into bulletins carrying their CVE ids
type Updater struct {
	*options
}

// NewUpdater return new updater instance
func NewUpdater(opts ...Option) Updater {
	o := &options{
		dataDir: collectors.MainFolder,
		fetcher: utils.NewHTTPFetcher(utils.DefaultTimeout),
		logger:  log.WithPrefix(collectors.StageBulletin),
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
	fetcher utils.Fetcher
	logger  *log.Logger
}

type Option func(*options)

func WithDataDir(dir string) Option {
	return func(o *options) { o.dataDir = dir }
}

func WithFetcher(f utils.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Update reads the feed entries and writes the resolved bulletins.
func (u Updater) Update(ctx context.Context) error {
	var entries []rss.Entry
	if err := utils.ReadJSON(filepath.Join(u.dataDir, collectors.RSSEntriesJSON), &entries); err != nil {
		return err
	}

	bulletins := certfr.Resolve(ctx, u.fetcher, entries, u.logger)

	fp := filepath.Join(u.dataDir, collectors.CveEntriesJSON)
	if err := utils.WriteJSON(fp, bulletins); err != nil {
		return err
	}
	log.OKTo(u.logger, "Bulletins processed", log.Int("bulletins", len(bulletins)), log.FilePath(fp))
	return nil
}
