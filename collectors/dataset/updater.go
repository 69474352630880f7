package dataset

import (
	"context"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/certfr-db-collector/collectors"
	"github.com/aquasecurity/certfr-db-collector/collectors/enrich/cve"
	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

// Updater builds the consolidated dataset from the enriched records
type Updater struct {
	*options
}

// NewUpdater return new updater instance
func NewUpdater(opts ...Option) Updater {
	o := &options{
		dataDir: collectors.MainFolder,
		logger:  log.WithPrefix(collectors.StageDataset),
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
	logger  *log.Logger
}

type Option func(*options)

func WithDataDir(dir string) Option {
	return func(o *options) { o.dataDir = dir }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Update flattens the enriched records and writes them as JSON and CSV.
func (u Updater) Update(_ context.Context) error {
	var records []cve.Enriched
	if err := utils.ReadJSON(filepath.Join(u.dataDir, collectors.EnrichedCveJSON), &records); err != nil {
		return err
	}

	rows := Flatten(records)
	if err := ValidateRows(rows); err != nil {
		u.logger.Warn("Incomplete rows", log.Err(err))
	}

	jsonPath := filepath.Join(u.dataDir, collectors.ConsolidatedJSON)
	if err := utils.WriteJSON(jsonPath, rows); err != nil {
		return err
	}

	b, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return xerrors.Errorf("failed to encode csv: %w", err)
	}
	csvPath := filepath.Join(u.dataDir, collectors.ConsolidatedCSV)
	if err = utils.WriteFile(csvPath, b); err != nil {
		return err
	}
	log.OKTo(u.logger, "Dataset written", log.Int("rows", len(rows)), log.FilePath(csvPath))
	return nil
}
