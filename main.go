package main

import (
	"context"
	"os"
	"time"

	"github.com/aquasecurity/vuln-list-update/utils"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/certfr-db-collector/collectors"
	"github.com/aquasecurity/certfr-db-collector/collectors/bulletin"
	"github.com/aquasecurity/certfr-db-collector/collectors/dataset"
	"github.com/aquasecurity/certfr-db-collector/collectors/enrich"
	"github.com/aquasecurity/certfr-db-collector/collectors/feed"
	u "github.com/aquasecurity/certfr-db-collector/collectors/utils"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

var (
	version = "0.0.1"
)

type updater interface {
	Update(ctx context.Context) error
}

type stage struct {
	name    string
	usage   string
	updater func(dir string) updater
}

var stages = []stage{
	{
		name:  collectors.StageFeed,
		usage: "collect CERT-FR advisory and alert feeds",
		updater: func(dir string) updater {
			return feed.NewUpdater(feed.WithDataDir(dir))
		},
	},
	{
		name:  collectors.StageBulletin,
		usage: "resolve bulletins and extract their CVE ids",
		updater: func(dir string) updater {
			return bulletin.NewUpdater(bulletin.WithDataDir(dir))
		},
	},
	{
		name:  collectors.StageEnrich,
		usage: "enrich CVEs from MITRE and FIRST EPSS",
		updater: func(dir string) updater {
			return enrich.NewUpdater(enrich.WithDataDir(dir))
		},
	},
	{
		name:  collectors.StageDataset,
		usage: "build the consolidated CSV dataset",
		updater: func(dir string) updater {
			return dataset.NewUpdater(dataset.WithDataDir(dir))
		},
	},
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Error("Run failed", log.Err(err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "certfr-db-collector"
	app.Version = version
	app.Usage = "CERT-FR bulletin and CVE dataset collector"

	for _, s := range stages {
		s := s
		app.Commands = append(app.Commands, cli.Command{
			Name:  s.name,
			Usage: s.usage,
			Action: func(c *cli.Context) error {
				return run(context.Background(), dataDir(), s)
			},
		})
	}
	app.Commands = append(app.Commands, cli.Command{
		Name:  "all",
		Usage: "run every stage in order",
		Action: func(c *cli.Context) error {
			return run(context.Background(), dataDir(), stages...)
		},
	})
	return app
}

func dataDir() string {
	return utils.LookupEnv("CERTFR_DATA_DIR", collectors.MainFolder)
}

// run executes the stages in order and stops at the first failing one.
func run(ctx context.Context, dir string, ss ...stage) error {
	for _, s := range ss {
		log.Info("Running stage", log.String("stage", s.name), log.String("data_dir", dir))
		if err := s.updater(dir).Update(ctx); err != nil {
			return xerrors.Errorf("%s stage error: %w", s.name, err)
		}
		if err := u.SetLastUpdatedDate(dir, s.name, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}
