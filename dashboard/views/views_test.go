package views

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/browsertest/report"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()

	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return doc
}

func TestBadge(t *testing.T) {
	doc := render(t, Badge(BadgeProps{Variant: BadgeVariantError, Class: "summary-failed"}, "<b>1 failed</b>"))

	badge := doc.Find("span")
	require.Equal(t, 1, badge.Length())
	assert.Equal(t, "badge badge-error summary-failed", badge.AttrOr("class", ""))
	assert.Equal(t, "<b>1 failed</b>", badge.Text())
	assert.Equal(t, 0, doc.Find("b").Length())
}

func TestOutcomeBadge(t *testing.T) {
	tests := []struct {
		name   string
		result report.Result
		label  string
		class  string
	}{
		{
			name:   "running",
			result: report.Result{},
			label:  "running",
			class:  "badge-secondary",
		},
		{
			name:   "passed",
			result: report.Result{Finished: true, Outcome: report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall}},
			label:  "passed",
			class:  "badge-success",
		},
		{
			name:   "errored in teardown",
			result: report.Result{Finished: true, Outcome: report.Outcome{Status: report.StatusErrored, Phase: report.PhaseTeardown}},
			label:  "errored in teardown",
			class:  "badge-warning",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			badge := render(t, OutcomeBadge(tt.result)).Find("span.badge")
			assert.Equal(t, tt.label, badge.Text())
			assert.True(t, badge.HasClass(tt.class))
		})
	}
}

func TestResultItem(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	result := report.Result{
		ID:       id,
		Name:     "TestLogin/<admin>",
		Finished: true,
		Outcome:  report.Outcome{Status: report.StatusFailed, Phase: report.PhaseCall},
		Failure:  "expected flash",
		Extras: []report.Extra{
			{Kind: report.ExtraImage, Name: "screenshot", Content: "data:image/png;base64,iVBORw0KGgo="},
			{Kind: report.ExtraTrace, Name: "trace", Content: "reports/traces/main/TestLogin.zip"},
			{Kind: report.ExtraText, Name: "artifact errors", Content: "screenshot: page closed"},
		},
		Console: []string{"12:00:00.000 [error] boom"},
	}

	doc := render(t, ResultItem(result, func(path string) string { return "/artifacts/" + path }))

	item := doc.Find("li.result")
	require.Equal(t, 1, item.Length())
	assert.Equal(t, "result-"+id.String(), item.AttrOr("id", ""))
	assert.Equal(t, "failed", item.AttrOr("data-status", ""))
	_, open := item.Find("details").Attr("open")
	assert.True(t, open, "failed results are expanded")
	assert.Equal(t, "TestLogin/<admin>", item.Find(".name").Text())

	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", item.Find(".image img").AttrOr("src", ""))
	assert.Equal(t, "/artifacts/reports/traces/main/TestLogin.zip", item.Find(".trace a").AttrOr("href", ""))
	assert.Equal(t, "screenshot: page closed", item.Find(".text pre").Text())
	assert.Contains(t, item.Find(".failure").Text(), "expected flash")
	assert.Contains(t, item.Find(".console").Text(), "boom")
}

func TestResultItem_PassedIsCollapsed(t *testing.T) {
	result := report.Result{
		ID:       uuid.Must(uuid.NewV4()),
		Name:     "TestPass",
		Finished: true,
		Outcome:  report.Outcome{Status: report.StatusPassed, Phase: report.PhaseCall},
	}

	doc := render(t, ResultItem(result, nil))

	_, open := doc.Find("details").Attr("open")
	assert.False(t, open)
	assert.Equal(t, 0, doc.Find(".failure, .console, .extra").Length())
}

func TestReport_LiveUpdates(t *testing.T) {
	doc := render(t, Report(ReportProps{Title: "Run", EventsURL: "/_report/events"}))

	assert.Equal(t, "/_report/events", doc.Find("body").AttrOr("data-events-url", ""))
	assert.Contains(t, doc.Find("body > script").Text(), "document.body.dataset.eventsUrl")
}
