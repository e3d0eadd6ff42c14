package views

import (
	"strconv"
	"time"

	"github.com/networkteam/browsertest/config"
	"github.com/networkteam/browsertest/report"
)

// ArtifactURLFunc maps an artifact file path to a link target.
type ArtifactURLFunc func(path string) string

type ReportProps struct {
	Title    string
	RunID    string
	Started  time.Time
	Metadata []config.MetadataEntry
	Summary  report.Summary
	Results  []report.Result

	ArtifactURL ArtifactURLFunc
	// EventsURL enables live updates from the SSE endpoint of the report viewer.
	EventsURL string
}

type summaryItem struct {
	Status report.Status
	Label  string
}

func summaryItems(summary report.Summary) []summaryItem {
	counts := []struct {
		status report.Status
		count  int
	}{
		{report.StatusPassed, summary.Passed},
		{report.StatusFailed, summary.Failed},
		{report.StatusErrored, summary.Errored},
		{report.StatusSkipped, summary.Skipped},
	}

	items := make([]summaryItem, 0, len(counts))
	for _, c := range counts {
		items = append(items, summaryItem{
			Status: c.status,
			Label:  strconv.Itoa(c.count) + " " + string(c.status),
		})
	}
	return items
}

// expanded results show their details without a click.
func expanded(result report.Result) bool {
	return result.Outcome.Status == report.StatusFailed || result.Outcome.Status == report.StatusErrored
}

func artifactLink(artifactURL ArtifactURLFunc, path string) string {
	if artifactURL == nil {
		return path
	}
	return artifactURL(path)
}
