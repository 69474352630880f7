package collectors

// Files exchanged between stages, relative to the data directory.
const (
	MainFolder = "data"

	RSSEntriesJSON   = "rss_entries.json"
	RSSEntriesCSV    = "rss_entries.csv"
	CveEntriesJSON   = "cve_entries.json"
	EnrichedCveJSON  = "enriched_cve.json"
	ConsolidatedJSON = "consolidated.json"
	ConsolidatedCSV  = "consolidated.csv"
)

// Stage names, also used as keys of last_updated.json.
const (
	StageFeed     = "feed"
	StageBulletin = "bulletin"
	StageEnrich   = "enrich"
	StageDataset  = "dataset"
)
