package enrich

import (
	"context"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/aquasecurity/certfr-db-collector/collectors"
	"github.com/aquasecurity/certfr-db-collector/collectors/bulletin/certfr"
	"github.com/aquasecurity/certfr-db-collector/collectors/enrich/cve"
	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

// Updater enriches the CVEs of every bulletin from MITRE and FIRST
type Updater struct {
	*options
}

// NewUpdater return new updater instance
func NewUpdater(opts ...Option) Updater {
	o := &options{
		dataDir: collectors.MainFolder,
		fetcher: utils.NewHTTPFetcher(utils.DefaultTimeout),
		logger:  log.WithPrefix(collectors.StageEnrich),
	}
	for _, opt := range opts {
		opt(o)
	}
	return Updater{
		options: o,
	}
}

type options struct {
	dataDir  string
	mitreURL string
	epssURL  string
	fetcher  utils.Fetcher
	logger   *log.Logger
}

type Option func(*options)

func WithDataDir(dir string) Option {
	return func(o *options) { o.dataDir = dir }
}

func WithMitreURL(url string) Option {
	return func(o *options) { o.mitreURL = url }
}

func WithEPSSURL(url string) Option {
	return func(o *options) { o.epssURL = url }
}

func WithFetcher(f utils.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Update reads the bulletins and writes one enriched record per CVE. CVEs
// without MITRE data are left out and reported, they do not fail the stage.
func (u Updater) Update(ctx context.Context) error {
	var bulletins []certfr.Bulletin
	if err := utils.ReadJSON(filepath.Join(u.dataDir, collectors.CveEntriesJSON), &bulletins); err != nil {
		return err
	}

	e := cve.Enricher{
		Mitre:  cve.NewMitreClient(u.fetcher, u.mitreURL),
		EPSS:   cve.NewEPSSClient(u.fetcher, u.epssURL),
		Logger: u.logger,
	}
	enriched, err := e.Enrich(ctx, bulletins)
	if merr, ok := err.(*multierror.Error); ok && merr.Len() > 0 {
		u.logger.Warn("CVEs skipped", log.Int("count", merr.Len()), log.Err(merr))
	}

	fp := filepath.Join(u.dataDir, collectors.EnrichedCveJSON)
	if err = utils.WriteJSON(fp, enriched); err != nil {
		return err
	}
	log.OKTo(u.logger, "Records enriched", log.Int("records", len(enriched)), log.FilePath(fp))
	return nil
}
