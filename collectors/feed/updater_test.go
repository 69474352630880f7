package feed

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/certfr-db-collector/collectors"
	"github.com/aquasecurity/certfr-db-collector/collectors/feed/rss"
	"github.com/aquasecurity/certfr-db-collector/collectors/utils"
	"github.com/aquasecurity/certfr-db-collector/pkg/log"
)

const feedDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<item>
  <title>Vulnérabilité dans OpenSSH</title>
  <link>https://www.cert.ssi.gouv.fr/avis/CERTFR-2025-AVI-001/</link>
  <description>Une vulnérabilité a été découverte, "critique".</description>
  <pubDate>Mon, 06 Jan 2025 10:00:00 +0000</pubDate>
</item>
</channel></rss>`

func TestUpdater_Update(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/avis/feed" {
			_, _ = w.Write([]byte(feedDoc))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	t.Run("writes json and csv", func(t *testing.T) {
		dir := t.TempDir()
		u := NewUpdater(
			WithDataDir(dir),
			WithFetcher(utils.NewHTTPFetcher(utils.DefaultTimeout)),
			WithLogger(log.New(&bytes.Buffer{})),
			WithSources([]rss.Source{
				{Type: rss.TypeAdvisory, URL: ts.URL + "/avis/feed"},
				{Type: rss.TypeAlert, URL: ts.URL + "/alerte/feed"},
			}),
		)
		require.NoError(t, u.Update(context.Background()))

		var got []rss.Entry
		require.NoError(t, utils.ReadJSON(filepath.Join(dir, collectors.RSSEntriesJSON), &got))
		require.Len(t, got, 1)
		assert.Equal(t, rss.TypeAdvisory, got[0].Type)
		assert.Equal(t, "Vulnérabilité dans OpenSSH", got[0].Title)

		csv, err := os.ReadFile(filepath.Join(dir, collectors.RSSEntriesCSV))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "type,title,description,published,link", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "avis,Vulnérabilité dans OpenSSH,"))
	})

	t.Run("no entry is fatal", func(t *testing.T) {
		dir := t.TempDir()
		u := NewUpdater(
			WithDataDir(dir),
			WithLogger(log.New(&bytes.Buffer{})),
			WithSources([]rss.Source{{Type: rss.TypeAlert, URL: ts.URL + "/alerte/feed"}}),
		)
		assert.Error(t, u.Update(context.Background()))
		_, err := os.Stat(filepath.Join(dir, collectors.RSSEntriesJSON))
		assert.True(t, os.IsNotExist(err))
	})
}
