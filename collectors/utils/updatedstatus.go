package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/xerrors"
)

const (
	lastUpdatedFile = "last_updated.json"
)

type LastUpdated map[string]time.Time

// GetLastUpdatedDate returns the last completion time of stage, or the unix
// epoch when the stage never ran in dir.
func GetLastUpdatedDate(dir, stage string) (time.Time, error) {
	lastUpdated, err := getLastUpdatedDate(dir)
	if err != nil {
		return time.Time{}, err
	}

	t, ok := lastUpdated[stage]
	if !ok {
		return time.Unix(0, 0), nil
	}

	return t, nil
}

func getLastUpdatedDate(dir string) (LastUpdated, error) {
	lastUpdated := LastUpdated{}
	fp := filepath.Join(dir, lastUpdatedFile)
	if _, err := os.Stat(fp); os.IsNotExist(err) {
		return lastUpdated, nil
	}

	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err = json.NewDecoder(f).Decode(&lastUpdated); err != nil {
		return nil, err
	}

	return lastUpdated, nil
}

func SetLastUpdatedDate(dir, stage string, lastUpdatedDate time.Time) error {
	lastUpdated, err := getLastUpdatedDate(dir)
	if err != nil {
		return xerrors.Errorf("failed to get last updated date: %w", err)
	}
	lastUpdated[stage] = lastUpdatedDate

	b, err := json.MarshalIndent(lastUpdated, "", "  ")
	if err != nil {
		return err
	}
	if err = WriteFile(filepath.Join(dir, lastUpdatedFile), b); err != nil {
		return xerrors.Errorf("failed to write last updated date: %w", err)
	}

	return nil
}
